/*
file: rudis/internal/executor/executor.go
*/

// Package executor applies a parsed command to the store and produces the
// RESP reply value, one case per recognized command, with no per-client
// authentication, transaction, or monitor state to thread through.
package executor

import (
	"time"

	"github.com/akashmaji946/rudis/internal/command"
	"github.com/akashmaji946/rudis/internal/resp"
	"github.com/akashmaji946/rudis/internal/store"
)

// Execute runs cmd against st and returns the RESP reply value. Execute
// never returns a Go error: every command-level failure (a type error on
// INCR, for instance) is already folded into a resp.Value of kind Error.
func Execute(cmd *command.Command, st *store.Store) resp.Value {
	switch cmd.Name {
	case command.Ping:
		if cmd.HasArg {
			return resp.Bulk(cmd.Message)
		}
		return resp.SimpleString("PONG")

	case command.Echo:
		return resp.Bulk(cmd.Message)

	case command.Get:
		v, ok := st.Get(cmd.Key)
		if !ok {
			return resp.NullBulk()
		}
		return resp.Bulk(v)

	case command.Set:
		if cmd.TTLUnit == command.NoTTL {
			st.SetNoTTL(cmd.Key, cmd.Value)
		} else {
			st.Set(cmd.Key, cmd.Value, cmd.TTLDuration())
		}
		return resp.SimpleString("OK")

	case command.Del:
		return resp.Integer(int64(st.Del(cmd.Keys...)))

	case command.Exists:
		return resp.Integer(int64(st.Exists(cmd.Keys...)))

	case command.Expire:
		if st.Expire(cmd.Key, time.Duration(cmd.Seconds)*time.Second) {
			return resp.Integer(1)
		}
		return resp.Integer(0)

	case command.Incr:
		return incrOrError(st, cmd.Key, 1)

	case command.Decr:
		return incrOrError(st, cmd.Key, -1)

	case command.Keys:
		return keysArray(st.Keys(cmd.Pattern))

	case command.DBSize:
		return resp.Integer(int64(st.DBSize()))

	case command.FlushDB:
		st.FlushDB()
		return resp.SimpleString("OK")

	default:
		return resp.Error("ERR unknown command")
	}
}

func incrOrError(st *store.Store, key string, delta int64) resp.Value {
	n, err := st.IncrBy(key, delta)
	if err != nil {
		return resp.Error("ERR " + err.Error())
	}
	return resp.Integer(n)
}

func keysArray(keys []string) resp.Value {
	items := make([]resp.Value, len(keys))
	for i, k := range keys {
		items[i] = resp.BulkFromString(k)
	}
	return resp.Array(items)
}
