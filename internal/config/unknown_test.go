package config

import (
	"reflect"
	"testing"
)

func TestDetectUnknownFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "all known",
			data: "scripts:\n  dir: x\nlog:\n  level: info\nstrict_exit: false\n",
			want: nil,
		},
		{
			name: "unknown root",
			data: "scripts:\n  dir: x\nverbose: true\n",
			want: []string{`unknown field "verbose" at root level (ignored)`},
		},
		{
			name: "unknown nested",
			data: "ready:\n  mode: file\n  file: x\n  delay: 3\n",
			want: []string{`unknown field "delay" in ready (ignored)`},
		},
		{
			name: "sorted across sections",
			data: "zeta: 1\nalpha: 2\nlog:\n  color: true\n",
			want: []string{
				`unknown field "alpha" at root level (ignored)`,
				`unknown field "color" in log (ignored)`,
				`unknown field "zeta" at root level (ignored)`,
			},
		},
		{
			name: "empty document",
			data: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := detectUnknownFields([]byte(tt.data))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("detectUnknownFields() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAndValidate_UnknownFieldsWarn(t *testing.T) {
	t.Parallel()
	cfg, warnings, err := ParseAndValidate([]byte("scripts:\n  dir: x\n  color: red\n"))
	if err != nil {
		t.Fatalf("ParseAndValidate() error = %v", err)
	}
	if cfg.Scripts.Dir != "x" {
		t.Errorf("scripts.dir = %q", cfg.Scripts.Dir)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %q, want one", warnings)
	}
}
