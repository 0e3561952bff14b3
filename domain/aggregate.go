package domain

// SchemaVersion is the version stamped on persisted aggregates and backups.
// A persisted blob carrying any other version is discarded on load.
const SchemaVersion = "1.0"

// RecentLimit bounds the recency list.
const RecentLimit = 20

// Indexes holds the secondary lookup structures kept in lock-step with the
// customer map.
type Indexes struct {
	ByPhone      map[string]string   `json:"byPhone"`
	ByEmail      map[string]string   `json:"byEmail"`
	ByTaxID      map[string]string   `json:"byGst"`
	Recent       []string            `json:"recent"`
	SearchTokens map[string][]string `json:"searchTokens"`
}

// Metadata describes the persisted aggregate.
type Metadata struct {
	Version        string `json:"version"`
	LastBackup     int64  `json:"lastBackup"`
	TotalCustomers int    `json:"totalCustomers"`
	LastModified   int64  `json:"lastModified"`
}

// Aggregate is the root object persisted as a single blob.
type Aggregate struct {
	Customers map[string]Customer      `json:"customers"`
	Indexes   Indexes                  `json:"indexes"`
	Stats     map[string]CustomerStats `json:"stats"`
	Metadata  Metadata                 `json:"metadata"`
}

// NewAggregate returns an empty aggregate at the current schema version.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Customers: make(map[string]Customer),
		Indexes: Indexes{
			ByPhone:      make(map[string]string),
			ByEmail:      make(map[string]string),
			ByTaxID:      make(map[string]string),
			Recent:       []string{},
			SearchTokens: make(map[string][]string),
		},
		Stats: make(map[string]CustomerStats),
		Metadata: Metadata{
			Version: SchemaVersion,
		},
	}
}

// Normalize replaces nil maps and slices left behind by decoding so the
// aggregate can be mutated safely.
func (a *Aggregate) Normalize() {
	if a == nil {
		return
	}
	if a.Customers == nil {
		a.Customers = make(map[string]Customer)
	}
	if a.Stats == nil {
		a.Stats = make(map[string]CustomerStats)
	}
	if a.Indexes.ByPhone == nil {
		a.Indexes.ByPhone = make(map[string]string)
	}
	if a.Indexes.ByEmail == nil {
		a.Indexes.ByEmail = make(map[string]string)
	}
	if a.Indexes.ByTaxID == nil {
		a.Indexes.ByTaxID = make(map[string]string)
	}
	if a.Indexes.Recent == nil {
		a.Indexes.Recent = []string{}
	}
	if a.Indexes.SearchTokens == nil {
		a.Indexes.SearchTokens = make(map[string][]string)
	}
	a.Metadata.TotalCustomers = len(a.Customers)
}
