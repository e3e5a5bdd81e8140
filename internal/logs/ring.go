package logs

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

type Entry struct {
	TimeStamp time.Time              `json:"timestamp"`
	Level     Level                  `json:"level"`
	Logger    string                 `json:"logger,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Ring keeps the most recent log entries in memory.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
}

func NewRing(maxSize int) *Ring {
	if maxSize < 0 {
		maxSize = 0
	}
	return &Ring{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
	}
}

func (r *Ring) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize == 0 {
		return
	}
	if len(r.entries) >= r.maxSize {
		// drop oldest
		r.entries = r.entries[1:]
	}
	r.entries = append(r.entries, e)
}

// GetLast returns deep copies so callers cannot mutate the ring.
func (r *Ring) GetLast(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n < 0 {
		n = 0
	}
	start := 0
	if n < len(r.entries) {
		start = len(r.entries) - n
	}

	out := make([]Entry, 0, len(r.entries)-start)
	for _, e := range r.entries[start:] {
		out = append(out, copyEntry(e))
	}
	return out
}

func copyEntry(e Entry) Entry {
	if e.Fields == nil {
		return e
	}
	fields := make(map[string]interface{}, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	e.Fields = fields
	return e
}

// ringCore is a zapcore.Core that appends every enabled entry to a Ring.
type ringCore struct {
	zapcore.LevelEnabler
	ring   *Ring
	fields []zapcore.Field
}

func newRingCore(ring *Ring, enab zapcore.LevelEnabler) *ringCore {
	return &ringCore{LevelEnabler: enab, ring: ring}
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &ringCore{LevelEnabler: c.LevelEnabler, ring: c.ring, fields: merged}
}

func (c *ringCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *ringCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	var encoded map[string]interface{}
	if len(c.fields)+len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range c.fields {
			f.AddTo(enc)
		}
		for _, f := range fields {
			f.AddTo(enc)
		}
		encoded = enc.Fields
	}

	c.ring.add(Entry{
		TimeStamp: ent.Time,
		Level:     Level(ent.Level.CapitalString()),
		Logger:    ent.LoggerName,
		Message:   ent.Message,
		Fields:    encoded,
	})
	return nil
}

func (c *ringCore) Sync() error {
	return nil
}
