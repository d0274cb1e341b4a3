package progress

import "testing"

func TestFunc_Emit(t *testing.T) {
	var got []Event
	f := Func(func(e Event) { got = append(got, e) })

	f.Emit(LevelWarning, "careful")
	f.Emit(LevelVerbose, "trace")

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Level != LevelWarning || got[0].Message != "careful" {
		t.Errorf("event[0] = %+v", got[0])
	}
	if !got[1].Level.Verbose() || got[0].Level.Verbose() {
		t.Error("Verbose() mismatch")
	}

	var none Func
	none.Emit(LevelError, "dropped") // must not panic
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelInfo, "info"},
		{LevelVerbose, "verbose"},
		{LevelWarning, "warning"},
		{LevelError, "error"},
		{LevelSuccess, "success"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
