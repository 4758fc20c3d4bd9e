package ledger

import "time"

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// Run is one synchronisation run.
type Run struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	StartedAt    time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt   time.Time `gorm:"column:finished_at" json:"finished_at"`
	Target       string    `gorm:"column:target;type:varchar(32)" json:"target"`
	DryRun       bool      `gorm:"column:dry_run" json:"dry_run"`
	Status       string    `gorm:"column:status;type:varchar(16)" json:"status"`
	Error        string    `gorm:"column:error;type:text" json:"error,omitempty"`
	Items        int       `gorm:"column:items" json:"items"`
	Published    int       `gorm:"column:published" json:"published"`
	Skipped      int       `gorm:"column:skipped" json:"skipped"`
	Failed       int       `gorm:"column:failed" json:"failed"`
	Abandoned    int       `gorm:"column:abandoned" json:"abandoned"`
	IndexOutcome string    `gorm:"column:index_outcome;type:varchar(16)" json:"index_outcome"`

	Entries []RunItem `gorm:"foreignKey:RunID" json:"entries,omitempty"`
}

// TableName specifies the table name for GORM.
func (Run) TableName() string {
	return "sync_runs"
}

// RunItem is the outcome of one catalog item in a run.
type RunItem struct {
	ID      uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RunID   string `gorm:"column:run_id;type:varchar(36);index" json:"-"`
	ItemID  string `gorm:"column:item_id;type:varchar(128)" json:"id"`
	Kind    string `gorm:"column:kind;type:varchar(16)" json:"kind"`
	Path    string `gorm:"column:path;type:varchar(255)" json:"path"`
	Action  string `gorm:"column:action;type:varchar(16)" json:"action"`
	Outcome string `gorm:"column:outcome;type:varchar(16)" json:"outcome"`
	Reason  string `gorm:"column:reason;type:varchar(255)" json:"reason,omitempty"`
	Error   string `gorm:"column:error;type:text" json:"error,omitempty"`
}

// TableName specifies the table name for GORM.
func (RunItem) TableName() string {
	return "sync_run_items"
}
