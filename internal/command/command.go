/*
file: rudis/internal/command/command.go
*/

// Package command turns a decoded RESP array into a typed, validated
// Command through a single parse step shared by every recognized command.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akashmaji946/rudis/internal/resp"
)

// Name identifies a recognized command, upper-cased over ASCII.
type Name string

const (
	Ping    Name = "PING"
	Echo    Name = "ECHO"
	Get     Name = "GET"
	Set     Name = "SET"
	Del     Name = "DEL"
	Exists  Name = "EXISTS"
	Expire  Name = "EXPIRE"
	Incr    Name = "INCR"
	Decr    Name = "DECR"
	Keys    Name = "KEYS"
	DBSize  Name = "DBSIZE"
	FlushDB Name = "FLUSHDB"
)

// TTLUnit distinguishes SET's optional EX (seconds) from PX (milliseconds)
// option.
type TTLUnit int

const (
	NoTTL TTLUnit = iota
	Seconds
	Milliseconds
)

// Command is the typed, already-validated representation of one client
// request: a recognized name plus whichever arguments that command takes.
// Only the fields relevant to Name are populated.
type Command struct {
	Name Name

	// PING / ECHO
	Message []byte
	HasArg  bool // PING with no message vs. PING with an empty-string message

	// GET / SET / EXPIRE / INCR / DECR
	Key string

	// SET
	Value   []byte
	TTLUnit TTLUnit
	TTL     int64 // seconds or milliseconds, per TTLUnit

	// DEL / EXISTS
	Keys []string

	// EXPIRE
	Seconds int64

	// KEYS
	Pattern string
}

// ParseError is a parse-time validation failure. Its Message is already
// formatted as the body of a RESP error reply (without the leading '-' or
// trailing CRLF, which the codec adds).
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

func errorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// Parse validates v as a client request and returns the Command it
// describes. v must be a RESP array of bulk strings; the first element
// names the command, case-insensitive over ASCII.
//
// Every returned error is a *ParseError suitable for relaying straight to
// the client as a RESP error reply; Parse never mutates any store and the
// caller is never left holding a partially built Command on error.
func Parse(v resp.Value) (*Command, error) {
	if v.Kind != resp.KindArray || v.ArrayNull {
		return nil, errorf("ERR invalid request: expected array")
	}
	if len(v.Array) == 0 {
		return nil, errorf("ERR invalid request: empty array")
	}

	args, err := bulkStrings(v.Array)
	if err != nil {
		return nil, err
	}

	name := Name(strings.Map(func(r rune) rune {
		if 'a' <= r && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, args[0]))
	rest := args[1:]

	switch name {
	case Ping:
		return parsePing(rest)
	case Echo:
		return parseEcho(rest)
	case Get:
		return parseGet(rest)
	case Set:
		return parseSet(rest)
	case Del:
		return parseKeyList(Del, "del", rest)
	case Exists:
		return parseKeyList(Exists, "exists", rest)
	case Expire:
		return parseExpire(rest)
	case Incr:
		return parseSingleKey(Incr, "incr", rest)
	case Decr:
		return parseSingleKey(Decr, "decr", rest)
	case Keys:
		return parseKeys(rest)
	case DBSize:
		return parseNoArgs(DBSize, "dbsize", rest)
	case FlushDB:
		return parseNoArgs(FlushDB, "flushdb", rest)
	default:
		return nil, errorf("ERR unknown command '%s'", args[0])
	}
}

// bulkStrings requires every element of arr to be a (non-null) bulk
// string and returns their contents as strings. A client request is a
// RESP array whose elements are bulk strings.
func bulkStrings(arr []resp.Value) ([]string, error) {
	out := make([]string, len(arr))
	for i, v := range arr {
		if v.Kind != resp.KindBulkString || v.BulkNull {
			return nil, errorf("ERR invalid request: expected bulk string argument")
		}
		out[i] = string(v.Bulk)
	}
	return out, nil
}

func wrongArity(cmdName string) error {
	return errorf("ERR wrong number of arguments for '%s' command", cmdName)
}

func parsePing(rest []string) (*Command, error) {
	switch len(rest) {
	case 0:
		return &Command{Name: Ping}, nil
	case 1:
		return &Command{Name: Ping, Message: []byte(rest[0]), HasArg: true}, nil
	default:
		return nil, wrongArity("ping")
	}
}

func parseEcho(rest []string) (*Command, error) {
	if len(rest) != 1 {
		return nil, wrongArity("echo")
	}
	return &Command{Name: Echo, Message: []byte(rest[0])}, nil
}

func parseGet(rest []string) (*Command, error) {
	if len(rest) != 1 {
		return nil, wrongArity("get")
	}
	return &Command{Name: Get, Key: rest[0]}, nil
}

// parseSet validates SET key value [EX seconds | PX milliseconds].
func parseSet(rest []string) (*Command, error) {
	if len(rest) != 2 && len(rest) != 4 {
		return nil, wrongArity("set")
	}

	cmd := &Command{Name: Set, Key: rest[0], Value: []byte(rest[1])}
	if len(rest) == 2 {
		return cmd, nil
	}

	option := strings.ToUpper(rest[2])
	switch option {
	case "EX":
		cmd.TTLUnit = Seconds
	case "PX":
		cmd.TTLUnit = Milliseconds
	default:
		return nil, errorf("ERR syntax error")
	}

	n, err := strconv.ParseInt(rest[3], 10, 64)
	if err != nil {
		return nil, errorf("ERR value is not an integer or out of range")
	}
	// Zero or negative TTL is rejected outright rather than treated as an
	// immediate expire.
	if n <= 0 {
		return nil, errorf("ERR syntax error")
	}
	cmd.TTL = n
	return cmd, nil
}

// TTLDuration converts a parsed SET TTL option into a time.Duration, for
// commands with TTLUnit != NoTTL.
func (c *Command) TTLDuration() time.Duration {
	switch c.TTLUnit {
	case Seconds:
		return time.Duration(c.TTL) * time.Second
	case Milliseconds:
		return time.Duration(c.TTL) * time.Millisecond
	default:
		return 0
	}
}

func parseKeyList(name Name, cmdName string, rest []string) (*Command, error) {
	if len(rest) < 1 {
		return nil, wrongArity(cmdName)
	}
	return &Command{Name: name, Keys: rest}, nil
}

func parseSingleKey(name Name, cmdName string, rest []string) (*Command, error) {
	if len(rest) != 1 {
		return nil, wrongArity(cmdName)
	}
	return &Command{Name: name, Key: rest[0]}, nil
}

func parseExpire(rest []string) (*Command, error) {
	if len(rest) != 2 {
		return nil, wrongArity("expire")
	}
	seconds, err := strconv.ParseInt(rest[1], 10, 64)
	if err != nil {
		return nil, errorf("ERR value is not an integer or out of range")
	}
	return &Command{Name: Expire, Key: rest[0], Seconds: seconds}, nil
}

func parseKeys(rest []string) (*Command, error) {
	if len(rest) != 1 {
		return nil, wrongArity("keys")
	}
	return &Command{Name: Keys, Pattern: rest[0]}, nil
}

func parseNoArgs(name Name, cmdName string, rest []string) (*Command, error) {
	if len(rest) != 0 {
		return nil, wrongArity(cmdName)
	}
	return &Command{Name: name}, nil
}
