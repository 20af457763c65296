package debugdraw

import (
	"errors"
	"testing"
)

// mockSink records frames and counts Close calls.
type mockSink struct {
	frames []*Frame
	closed int
	err    error
}

func (m *mockSink) Send(f *Frame) error {
	m.frames = append(m.frames, f)
	return m.err
}

func (m *mockSink) Close() error {
	m.closed++
	return nil
}

// TestNewDefault tests that New uses DefaultConfig without options.
func TestNewDefault(t *testing.T) {
	dc := New()
	if dc == nil {
		t.Fatal("New returned nil")
	}
	if got, want := dc.Config(), DefaultConfig(); got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}
	if dc.CurrentColor() != defaultPalette[ColorDefault] {
		t.Errorf("CurrentColor() = %v, want %v", dc.CurrentColor(), defaultPalette[ColorDefault])
	}
	if dc.Refs() != 1 {
		t.Errorf("Refs() = %d, want 1", dc.Refs())
	}
}

// TestWithConfig tests that zero fields fall back to defaults.
func TestWithConfig(t *testing.T) {
	dc := New(WithConfig(Config{Color: RGB(1, 2, 3), ArrowSize: -1}))
	cfg := dc.Config()

	if cfg.Color != RGB(1, 2, 3) {
		t.Errorf("Color = %v, want %v", cfg.Color, RGB(1, 2, 3))
	}
	if cfg.ArrowSize != DefaultArrowSize {
		t.Errorf("ArrowSize = %v, want %v", cfg.ArrowSize, DefaultArrowSize)
	}
	if cfg.CylinderSegments != DefaultCylinderSegments {
		t.Errorf("CylinderSegments = %d, want %d", cfg.CylinderSegments, DefaultCylinderSegments)
	}
	if dc.DebugColor(ColorDefault) != RGB(1, 2, 3) {
		t.Errorf("DebugColor(ColorDefault) = %v, want the configured color", dc.DebugColor(ColorDefault))
	}
}

// TestWithSink tests that sinks receive frames and nil sinks are ignored.
func TestWithSink(t *testing.T) {
	sink := &mockSink{}
	dc := New(WithSink(nil), WithSink(sink))

	if len(dc.sinks) != 1 {
		t.Fatalf("len(sinks) = %d, want 1", len(dc.sinks))
	}
	dc.EndFrame()
	dc.EndFrame()
	if len(sink.frames) != 2 {
		t.Errorf("sink received %d frames, want 2", len(sink.frames))
	}
}

// TestSinkErrorDoesNotStopFrame tests that a failing sink is only logged.
func TestSinkErrorDoesNotStopFrame(t *testing.T) {
	failing := &mockSink{err: errors.New("boom")}
	ok := &mockSink{}
	dc := New(WithSink(failing), WithSink(ok))

	if f := dc.EndFrame(); f == nil {
		t.Fatal("EndFrame() = nil")
	}
	if len(ok.frames) != 1 {
		t.Errorf("second sink received %d frames, want 1", len(ok.frames))
	}
}

// TestWithErrorHandler tests that diagnostics reach the handler.
func TestWithErrorHandler(t *testing.T) {
	var got []error
	dc := New(WithErrorHandler(func(err error) { got = append(got, err) }))

	dc.PopRenderState()

	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	if !errors.Is(got[0], ErrStateUnderflow) {
		t.Errorf("error = %v, want ErrStateUnderflow", got[0])
	}
	var op *OpError
	if !errors.As(got[0], &op) || op.Op != "PopRenderState" {
		t.Errorf("error = %#v, want *OpError for PopRenderState", got[0])
	}
}
