package extract

import "testing"

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "iso date", raw: "2025-05-20", want: "2025-05-20"},
		{name: "iso datetime", raw: "2025-05-20T10:30:00Z", want: "2025-05-20"},
		{name: "iso with surrounding space", raw: "  2025-05-20  ", want: "2025-05-20"},
		{name: "rfc822 named zone", raw: "Tue, 20 May 2025 10:30:00 GMT", want: "2025-05-20"},
		{name: "rfc822 numeric zone", raw: "Tue, 20 May 2025 10:30:00 +0000", want: "2025-05-20"},
		{name: "natural language", raw: "September 17, 2012", want: "2012-09-17"},
		{name: "ctime-like prefix", raw: "Sat Jan 02 2021 release notes", want: "2021-01-02"},
		{name: "unparseable", raw: "Invalid Date String", want: ""},
		{name: "empty", raw: "", want: ""},
		{name: "whitespace only", raw: "   ", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeDate(tc.raw); got != tc.want {
				t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeDateNeverPanics(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"9", "99-", "2025", "{}", "\x00digit"} {
		if got := NormalizeDate(raw); got != "" && len(got) != 10 {
			t.Fatalf("NormalizeDate(%q) = %q, want empty or YYYY-MM-DD", raw, got)
		}
	}
}
