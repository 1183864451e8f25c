package demuxer

import (
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/tables"
)

// DataTableBatch is the handle_data_tables(parse_tables, server_classes)
// payload: the signon block's send-table inheritance
// edges, used once to classify weapon/projectile classes.
type DataTableBatch struct {
	ParseTables   []entity.ParseTable
	ServerClasses []ServerClass
}

// ServerClass names one entity server-class declared in the signon block.
// Kept distinct from ParseTable (which only carries the inheritance edge
// needed for classification) so a richer demuxer can still populate it
// without the analyzer caring.
type ServerClass struct {
	ClassID int
	Name    string
	DTName  string
}

// StringEntryKind discriminates which recognized string table a
// handle_string_entry call targets.
type StringEntryKind int

const (
	StringEntryUserInfo StringEntryKind = iota
	StringEntryModelPrecache
	StringEntryEffectDispatch
	StringEntryOther
)

// StringEntry is one handle_string_entry(table_name, index, entry) call,
// pre-decoded into the kind-specific payload.
type StringEntry struct {
	Kind    StringEntryKind
	Index   int
	UserInfo        tables.UserInfoEntry
	ModelPrecache   tables.ModelPrecacheEntry
	EffectDispatch  tables.EffectDispatchEntry
}

// Analyzer is the four-callback contract: handle_data_tables /
// handle_string_entry / handle_message / into_output.
// A Source drives an Analyzer implementation (internal/analyzer.Analyzer in
// production; FakeSource below for tests).
type Analyzer interface {
	HandleDataTables(batch DataTableBatch)
	HandleStringEntry(tableName string, entry StringEntry)
	HandleMessage(msg Message, tick int)
	IntoOutput() any
}

// Source replays a fixed sequence of calls against an Analyzer. Production
// code drives this from the real bitstream demuxer (an external
// collaborator this package does not implement); FakeSource below drives it
// from a synthetic, already-typed script for tests, exactly as a real
// decoder would after parsing bytes off the wire.
type Source interface {
	Run(a Analyzer) any
}

// scriptedMessage pairs a Message with the tick it arrived on, for
// FakeSource's Run.
type scriptedMessage struct {
	msg  Message
	tick int
}

// FakeSource is a Source built from synthetic, already-typed message structs.
// Construct with NewFakeSource, append fixture data with
// the With* methods, then pass to Run.
type FakeSource struct {
	dataTables DataTableBatch
	hasTables  bool
	entries    []scriptedStringEntry
	messages   []scriptedMessage
}

type scriptedStringEntry struct {
	tableName string
	entry     StringEntry
}

// NewFakeSource returns an empty scripted source.
func NewFakeSource() *FakeSource {
	return &FakeSource{}
}

// WithDataTables schedules the one handle_data_tables call.
func (f *FakeSource) WithDataTables(batch DataTableBatch) *FakeSource {
	f.dataTables = batch
	f.hasTables = true
	return f
}

// WithStringEntry schedules one handle_string_entry call.
func (f *FakeSource) WithStringEntry(tableName string, entry StringEntry) *FakeSource {
	f.entries = append(f.entries, scriptedStringEntry{tableName, entry})
	return f
}

// WithMessage schedules one handle_message call at tick.
func (f *FakeSource) WithMessage(tick int, msg Message) *FakeSource {
	f.messages = append(f.messages, scriptedMessage{msg: msg, tick: tick})
	return f
}

// Run replays the scripted calls in order: data tables, then string entries,
// then messages (already tick-ordered by the caller), then into_output.
func (f *FakeSource) Run(a Analyzer) any {
	if f.hasTables {
		a.HandleDataTables(f.dataTables)
	}
	for _, e := range f.entries {
		a.HandleStringEntry(e.tableName, e.entry)
	}
	for _, m := range f.messages {
		a.HandleMessage(m.msg, m.tick)
	}
	return a.IntoOutput()
}
