package tablepick_test

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koume-z/tablepick"
)

func sampleTable() *tablepick.Table {
	return &tablepick.Table{
		Header: []string{"Name", "Age"},
		Rows: [][]string{
			{"Alice", "30"},
			{"Bob", "25"},
		},
	}
}

func TestToCSV(t *testing.T) {
	t.Parallel()

	t.Run("plain values", func(t *testing.T) {
		t.Parallel()

		got := tablepick.ToCSV(sampleTable())
		assert.Equal(t, "Name,Age\nAlice,30\nBob,25", got)
	})

	t.Run("quotes fields containing delimiter, quote, or newline", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"a,b", `say "hi"`, "line"},
			Rows:   [][]string{{"1,2", `x"y`, "one\ntwo"}},
		}

		got := tablepick.ToCSV(table)
		assert.Equal(t, `"a,b","say ""hi""",line`+"\n"+`"1,2","x""y","one`+"\ntwo\"", got)
	})

	t.Run("round-trips through a CSV reader", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"col,1", `q"uote`, "plain"},
			Rows: [][]string{
				{"a\nb", "", "3"},
				{"x", "y,z", `"`},
			},
		}

		r := csv.NewReader(strings.NewReader(tablepick.ToCSV(table)))
		records, err := r.ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, table.Header, records[0])
		assert.Equal(t, table.Rows[0], records[1])
		assert.Equal(t, table.Rows[1], records[2])
	})

	t.Run("header-only table emits a single line", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{Header: []string{"A", "B"}}
		assert.Equal(t, "A,B", tablepick.ToCSV(table))
	})
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	t.Run("compact array of row objects", func(t *testing.T) {
		t.Parallel()

		got := tablepick.ToJSON(sampleTable(), tablepick.JSONOptions{})
		assert.Equal(t, `[{"Name":"Alice","Age":"30"},{"Name":"Bob","Age":"25"}]`, got)
	})

	t.Run("keys preserve header order", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"z", "a", "m"},
			Rows:   [][]string{{"1", "2", "3"}},
		}

		got := tablepick.ToJSON(table, tablepick.JSONOptions{})
		assert.Equal(t, `[{"z":"1","a":"2","m":"3"}]`, got)
	})

	t.Run("parses back to equivalent objects", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"Name", "Note"},
			Rows:   [][]string{{"日本", `say "hi"`}},
		}

		var parsed []map[string]string
		require.NoError(t, json.Unmarshal([]byte(tablepick.ToJSON(table, tablepick.JSONOptions{})), &parsed))
		require.Len(t, parsed, 1)
		assert.Equal(t, map[string]string{"Name": "日本", "Note": `say "hi"`}, parsed[0])
	})

	t.Run("duplicate headers collapse with last value winning", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"k", "k"},
			Rows:   [][]string{{"first", "second"}},
		}

		got := tablepick.ToJSON(table, tablepick.JSONOptions{})
		assert.Equal(t, `[{"k":"second"}]`, got)
	})

	t.Run("ensure ascii escapes non-ASCII runes", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"名前"},
			Rows:   [][]string{{"東京 🗼"}},
		}

		got := tablepick.ToJSON(table, tablepick.JSONOptions{EnsureASCII: true})
		assert.NotContains(t, got, "名")
		assert.NotContains(t, got, "🗼")
		assert.Contains(t, got, `\u540d\u524d`)
		// Runes above the BMP become surrogate pairs.
		assert.Contains(t, got, `\ud83d\uddfc`)

		var parsed []map[string]string
		require.NoError(t, json.Unmarshal([]byte(got), &parsed))
		assert.Equal(t, "東京 🗼", parsed[0]["名前"])
	})

	t.Run("indent pretty-prints", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"a"},
			Rows:   [][]string{{"1"}},
		}

		got := tablepick.ToJSON(table, tablepick.JSONOptions{Indent: 2})
		assert.Equal(t, "[\n  {\n    \"a\": \"1\"\n  }\n]", got)

		var parsed []map[string]string
		require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	})

	t.Run("control characters are escaped", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{
			Header: []string{"a"},
			Rows:   [][]string{{"x\ty"}},
		}

		got := tablepick.ToJSON(table, tablepick.JSONOptions{})
		assert.Equal(t, `[{"a":"x\ty"}]`, got)
	})

	t.Run("no rows yields empty array", func(t *testing.T) {
		t.Parallel()

		table := &tablepick.Table{Header: []string{"a"}}
		assert.Equal(t, "[]", tablepick.ToJSON(table, tablepick.JSONOptions{Indent: 2}))
	})

	t.Run("deterministic output", func(t *testing.T) {
		t.Parallel()

		table := sampleTable()
		opts := tablepick.JSONOptions{Indent: 4, EnsureASCII: true}
		assert.Equal(t, tablepick.ToJSON(table, opts), tablepick.ToJSON(table, opts))
	})
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	t.Run("dispatches on format", func(t *testing.T) {
		t.Parallel()

		table := sampleTable()

		csvOut, err := tablepick.Serialize(table, tablepick.FormatCSV, tablepick.JSONOptions{})
		require.NoError(t, err)
		assert.Equal(t, tablepick.ToCSV(table), csvOut)

		jsonOut, err := tablepick.Serialize(table, tablepick.FormatJSON, tablepick.JSONOptions{Indent: 2})
		require.NoError(t, err)
		assert.Equal(t, tablepick.ToJSON(table, tablepick.JSONOptions{Indent: 2}), jsonOut)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		t.Parallel()

		_, err := tablepick.Serialize(sampleTable(), tablepick.Format("md"), tablepick.JSONOptions{})
		require.Error(t, err)
	})
}
