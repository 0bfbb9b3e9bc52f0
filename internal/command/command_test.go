package command

import (
	"testing"

	"github.com/akashmaji946/rudis/internal/resp"
)

func array(parts ...string) resp.Value {
	items := make([]resp.Value, len(parts))
	for i, p := range parts {
		items[i] = resp.Bulk([]byte(p))
	}
	return resp.Array(items)
}

func TestParseRecognizedCommands(t *testing.T) {
	cases := []struct {
		name string
		in   resp.Value
		want Name
	}{
		{"ping bare", array("PING"), Ping},
		{"ping lowercase", array("ping"), Ping},
		{"ping with message", array("PING", "hi"), Ping},
		{"echo", array("ECHO", "hi"), Echo},
		{"get", array("GET", "k"), Get},
		{"set", array("SET", "k", "v"), Set},
		{"set with ex", array("SET", "k", "v", "EX", "10"), Set},
		{"del", array("DEL", "a", "b"), Del},
		{"exists", array("EXISTS", "a"), Exists},
		{"expire", array("EXPIRE", "k", "10"), Expire},
		{"incr", array("INCR", "k"), Incr},
		{"decr", array("DECR", "k"), Decr},
		{"keys", array("KEYS", "*"), Keys},
		{"dbsize", array("DBSIZE"), DBSize},
		{"flushdb", array("FLUSHDB"), FlushDB},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cmd.Name != tc.want {
				t.Fatalf("Name = %q, want %q", cmd.Name, tc.want)
			}
		})
	}
}

func TestParseSetOptions(t *testing.T) {
	cmd, err := Parse(array("SET", "k", "v", "EX", "10"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.TTLUnit != Seconds || cmd.TTL != 10 {
		t.Fatalf("got TTLUnit=%v TTL=%d, want Seconds/10", cmd.TTLUnit, cmd.TTL)
	}

	cmd, err = Parse(array("SET", "k", "v", "PX", "100"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.TTLUnit != Milliseconds || cmd.TTL != 100 {
		t.Fatalf("got TTLUnit=%v TTL=%d, want Milliseconds/100", cmd.TTLUnit, cmd.TTL)
	}
}

func TestParseRejectsInvalidRequests(t *testing.T) {
	cases := []struct {
		name string
		in   resp.Value
	}{
		{"non-array top level", resp.Bulk([]byte("PING"))},
		{"empty array", resp.Array(nil)},
		{"unknown command", array("FOOBAR")},
		{"get wrong arity", array("GET")},
		{"get too many args", array("GET", "a", "b")},
		{"del no keys", array("DEL")},
		{"set wrong arity", array("SET", "k")},
		{"set bad option", array("SET", "k", "v", "XY", "10")},
		{"set conflicting-looking option still rejected if unknown", array("SET", "k", "v", "NX", "10")},
		{"set non-numeric ttl", array("SET", "k", "v", "EX", "soon")},
		{"set zero ttl", array("SET", "k", "v", "EX", "0")},
		{"set negative ttl", array("SET", "k", "v", "EX", "-5")},
		{"expire non-numeric", array("EXPIRE", "k", "soon")},
		{"dbsize with args", array("DBSIZE", "oops")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.in); err == nil {
				t.Fatalf("Parse(%v) = nil error, want error", tc.in)
			}
		})
	}
}

func TestParseRejectsNonBulkArrayElements(t *testing.T) {
	v := resp.Array([]resp.Value{resp.Bulk([]byte("GET")), resp.Integer(1)})
	if _, err := Parse(v); err == nil {
		t.Fatal("Parse with non-bulk argument = nil error, want error")
	}
}
