package presto

import "testing"

func TestExtractFailureMessage(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "nested under error",
			raw:  `{"error":{"message":"q failed","failureInfo":{"message":"table not found"}}}`,
			want: "table not found",
			ok:   true,
		},
		{
			name: "top level failureInfo",
			raw:  `{"message":"q failed","failureInfo":{"message":"division by zero"}}`,
			want: "division by zero",
			ok:   true,
		},
		{
			name: "structured without failureInfo message",
			raw:  `{"message":"q failed"}`,
			ok:   false,
		},
		{
			name: "plain text",
			raw:  "Internal Server Error",
			ok:   false,
		},
		{
			name: "malformed json",
			raw:  `{"error":`,
			ok:   false,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractFailureMessage(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}
