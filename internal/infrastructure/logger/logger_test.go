package logger

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/masterly/internal/infrastructure/config"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		level, format string
		wantErr       bool
		wantText      bool
	}{
		{level: "debug", format: "text", wantText: true},
		{level: "warn", format: "json"},
		{level: "info", format: ""},
		{level: "loud", format: "json", wantErr: true},
		{level: "info", format: "xml", wantErr: true},
	}
	for _, tc := range cases {
		cfg := &config.Config{Log: config.LogConfig{Level: tc.level, Format: tc.format}}
		l, err := NewLogger(cfg)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NewLogger(%s,%s): expected error", tc.level, tc.format)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewLogger(%s,%s) returned error: %v", tc.level, tc.format, err)
		}
		if l.GetLevel().String() != tc.level {
			t.Fatalf("level = %s, want %s", l.GetLevel(), tc.level)
		}
		_, isText := l.Formatter.(*logrus.TextFormatter)
		if isText != tc.wantText {
			t.Fatalf("format %q: text formatter = %v", tc.format, isText)
		}
	}
}
