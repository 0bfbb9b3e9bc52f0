package store

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, key string
		want         bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"user:*", "user:1", true},
		{"user:*", "product:1", false},
		{"h?llo", "hello", true},
		{"h?llo", "hallo", true},
		{"h?llo", "hllo", false},
		{"h[ae]llo", "hello", true},
		{"h[ae]llo", "hallo", true},
		{"h[ae]llo", "hillo", false},
		{"h[^ae]llo", "hillo", true},
		{"h[^ae]llo", "hello", false},
		{"[a-c]at", "bat", true},
		{"[a-c]at", "dat", false},
		{"[^a-c]at", "dat", true},
		{`\*literal`, "*literal", true},
		{`\*literal`, "xliteral", false},
		{"a[\\]]z", "a]z", true},
		{"*", "", true},
		{"", "", true},
		{"", "x", false},
		{"abc", "abc", true},
		{"ab*", "ab", true},
		{"*abc*", "xxabcyy", true},
	}
	for _, tc := range cases {
		if got := Match(tc.pattern, tc.key); got != tc.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tc.pattern, tc.key, got, tc.want)
		}
	}
}
