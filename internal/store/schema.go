package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	itemsTable     = "vocabulary_items"
	tracksTable    = "language_tracks"
	trackEvtTable  = "track_events"
	llmEventsTable = "llm_request_events"
	sequenceTable  = "global_sequence"

	colID        = "id"
	colText      = "text"
	colCreatedAt = "created_at"

	colItemID    = "item_id"
	colLanguage  = "language"
	colEntry     = "entry"
	colNextDueAt = "next_due_at"
	colProgress  = "progress_count"
	colMastered  = "mastered"
	colUpdatedAt = "updated_at"

	colSequence     = "sequence"
	colTimestamp    = "timestamp"
	colKind         = "kind"
	colReason       = "reason"
	colRequestKey   = "request_key"
	colPrevDueAt    = "prev_due_at"
	colPrevProgress = "prev_progress_count"
	colPrevMastered = "prev_mastered"

	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"
	colSuccess      = "success"
	colErrorMessage = "error_message"
	colRequestBody  = "request_body"
	colResponseBody = "response_body"
	colSubjectItem  = "subject_item_id"
	colSubjectLang  = "subject_language"

	colNextVal = "next_val"
)

var (
	// ItemsColumns holds the columns for the "vocabulary_items" table.
	// created_at is unix nanoseconds so insertion order survives ties at
	// second precision.
	ItemsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeString},
		{Name: colText, Type: field.TypeString},
		{Name: colCreatedAt, Type: field.TypeInt64},
	}
	// ItemsTable holds the schema information for the "vocabulary_items" table.
	ItemsTable = &schema.Table{
		Name:       itemsTable,
		Columns:    ItemsColumns,
		PrimaryKey: []*schema.Column{ItemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "item_text", Unique: false, Columns: []*schema.Column{ItemsColumns[1]}},
			{Name: "item_created_at", Unique: false, Columns: []*schema.Column{ItemsColumns[2]}},
		},
	}

	// TracksColumns holds the columns for the "language_tracks" table.
	// next_due_at is unix seconds, NULL while the track is new.
	TracksColumns = []*schema.Column{
		{Name: colItemID, Type: field.TypeString},
		{Name: colLanguage, Type: field.TypeString},
		{Name: colEntry, Type: field.TypeString, Default: ""},
		{Name: colNextDueAt, Type: field.TypeInt64, Nullable: true},
		{Name: colProgress, Type: field.TypeInt, Default: 0},
		{Name: colMastered, Type: field.TypeBool, Default: false},
		{Name: colUpdatedAt, Type: field.TypeInt64},
	}
	// TracksTable holds the schema information for the "language_tracks" table.
	TracksTable = &schema.Table{
		Name:       tracksTable,
		Columns:    TracksColumns,
		PrimaryKey: []*schema.Column{TracksColumns[0], TracksColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "language_tracks_vocabulary_items_tracks",
				Columns:    []*schema.Column{TracksColumns[0]},
				RefColumns: []*schema.Column{ItemsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "track_language_mastered_next_due_at",
				Unique:  false,
				Columns: []*schema.Column{TracksColumns[1], TracksColumns[5], TracksColumns[3]},
			},
		},
	}

	// TrackEventsColumns holds the columns for the "track_events" table.
	TrackEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeInt64},
		{Name: colItemID, Type: field.TypeString},
		{Name: colLanguage, Type: field.TypeString},
		{Name: colKind, Type: field.TypeString},
		{Name: colReason, Type: field.TypeString, Default: ""},
		{Name: colRequestKey, Type: field.TypeString, Unique: true, Nullable: true},
		{Name: colPrevDueAt, Type: field.TypeInt64, Nullable: true},
		{Name: colPrevProgress, Type: field.TypeInt},
		{Name: colPrevMastered, Type: field.TypeBool},
		{Name: colNextDueAt, Type: field.TypeInt64, Nullable: true},
		{Name: colProgress, Type: field.TypeInt},
		{Name: colMastered, Type: field.TypeBool},
	}
	// TrackEventsTable holds the schema information for the "track_events" table.
	TrackEventsTable = &schema.Table{
		Name:       trackEvtTable,
		Columns:    TrackEventsColumns,
		PrimaryKey: []*schema.Column{TrackEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "trackevent_item_id_language",
				Unique:  false,
				Columns: []*schema.Column{TrackEventsColumns[3], TrackEventsColumns[4]},
			},
		},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeInt64},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString},
		{Name: colInputTokens, Type: field.TypeInt},
		{Name: colOutputTokens, Type: field.TypeInt},
		{Name: colLatencyMs, Type: field.TypeInt64},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Nullable: true},
		{Name: colRequestBody, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colResponseBody, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colSubjectItem, Type: field.TypeString, Default: ""},
		{Name: colSubjectLang, Type: field.TypeString, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Unique: false, Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_subject_item_id", Unique: false, Columns: []*schema.Column{LLMRequestEventsColumns[13]}},
		},
	}

	// GlobalSequenceColumns holds the single-row counter behind event
	// sequence numbers.
	GlobalSequenceColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: colNextVal, Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the schema information for the "global_sequence" table.
	GlobalSequenceTable = &schema.Table{
		Name:       sequenceTable,
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ItemsTable,
		TracksTable,
		TrackEventsTable,
		LLMRequestEventsTable,
		GlobalSequenceTable,
	}
)

func init() {
	TracksTable.ForeignKeys[0].RefTable = ItemsTable
}
