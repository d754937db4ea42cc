//go:build windows

package notify

import "testing"

func TestXMLEscape(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"a < b & c", "a &lt; b &amp; c"},
		{`"quoted"`, "&#34;quoted&#34;"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := xmlEscape(tc.in); got != tc.want {
			t.Fatalf("xmlEscape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
