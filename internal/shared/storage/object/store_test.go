package object

import "testing"

func TestCleanKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "simple", key: "outbox/a.json", want: "outbox/a.json"},
		{name: "dot segments", key: "outbox/./b/../a.json", want: "outbox/a.json"},
		{name: "backslashes", key: `outbox\a.json`, want: "outbox/a.json"},
		{name: "empty", key: "  ", wantErr: true},
		{name: "absolute", key: "/etc/passwd", wantErr: true},
		{name: "traversal", key: "../secret", wantErr: true},
		{name: "nested traversal", key: "outbox/../../secret", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanKey(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CleanKey(%q) expected error, got %q", tt.key, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CleanKey(%q): %v", tt.key, err)
			}
			if got != tt.want {
				t.Fatalf("CleanKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
