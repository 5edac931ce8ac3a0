package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Konsultn-Engineering/sqlstmt/cache"
	"github.com/Konsultn-Engineering/sqlstmt/format"
	"github.com/Konsultn-Engineering/sqlstmt/message"
	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const personInsert = "INSERT INTO person (id, name, dob) VALUES " +
	"(%sql_id{string:id}, %sql_payload{string:name}, %sql_metadata{date:dob})"

func start(t *testing.T, s Service) {
	t.Helper()
	require.NoError(t, s.Prepare())
	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, s.Start())
}

func TestCaptureBuilder_Service(t *testing.T) {
	db := &fakeDB{affected: 1}
	b := NewCaptureBuilder("person", personInsert, fakeConn(db))
	start(t, b)

	msg := message.NewWithID("m-1", []byte("Rachel"))
	msg.SetMetadata("dob", "1990-03-19")
	require.NoError(t, b.Service(context.Background(), msg))

	require.Len(t, db.calls, 1)
	assert.Equal(t, "INSERT INTO person (id, name, dob) VALUES ($1, $2, $3)", db.calls[0].query)
	assert.Equal(t, []any{"m-1", "Rachel", time.Date(1990, 3, 19, 0, 0, 0, 0, time.UTC)}, db.calls[0].args)

	n, ok := msg.Metadata(RowsAffectedKey)
	assert.True(t, ok)
	assert.Equal(t, "1", n)
}

func TestCaptureBuilder_ExecError(t *testing.T) {
	boom := errors.New("relation does not exist")
	b := NewCaptureBuilder("person", personInsert, fakeConn(&fakeDB{execErr: boom}))
	start(t, b)

	err := b.Service(context.Background(), message.NewWithID("m-1", nil))
	assert.ErrorIs(t, err, boom)
}

func TestLifecycle(t *testing.T) {
	b := NewCaptureBuilder("person", personInsert, fakeConn(&fakeDB{}))
	msg := message.NewWithID("m-1", nil)

	assert.Equal(t, StateNew, b.State())
	assert.ErrorIs(t, b.Service(context.Background(), msg), ErrNotServing)

	require.NoError(t, b.Prepare())
	assert.Equal(t, StatePrepared, b.State())
	assert.NotNil(t, b.Compiled())

	var se *StateError
	require.ErrorAs(t, b.Prepare(), &se)
	assert.Equal(t, "prepare", se.Op)
	assert.EqualError(t, se, "cannot prepare builder in state prepared")
	require.ErrorAs(t, b.Start(), &se)

	require.NoError(t, b.Init(context.Background()))
	require.NoError(t, b.Start())
	assert.NoError(t, b.Service(context.Background(), msg))

	require.NoError(t, b.Stop())
	assert.ErrorIs(t, b.Service(context.Background(), msg), ErrNotServing)
	require.NoError(t, b.Start())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Service(context.Background(), msg), ErrNotServing)
}

func TestPrepare_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      error
	}{
		{name: "blank", statement: "  \n", want: ErrStatementRequired},
		{name: "unknown type", statement: "SELECT %sql_payload{uuid:id}", want: placeholder.ErrUnrecognizedType},
		{name: "unknown origin", statement: "SELECT %sql_header{string:id}", want: placeholder.ErrUnrecognizedOrigin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCaptureBuilder("bad", tt.statement, fakeConn(&fakeDB{}))
			assert.ErrorIs(t, b.Prepare(), tt.want)
			assert.Equal(t, StateFailed, b.State())
			assert.Nil(t, b.Compiled())

			var se *StateError
			assert.ErrorAs(t, b.Init(context.Background()), &se)
		})
	}
}

func TestPrepare_NoConnection(t *testing.T) {
	b := NewCaptureBuilder("person", personInsert, nil)
	assert.ErrorIs(t, b.Prepare(), ErrConnectionRequired)
}

func TestInit_Unhealthy(t *testing.T) {
	down := errors.New("connection refused")
	b := NewCaptureBuilder("person", personInsert, fakeConn(&fakeDB{pingErr: down}))
	require.NoError(t, b.Prepare())
	assert.ErrorIs(t, b.Init(context.Background()), down)
	assert.Equal(t, StatePrepared, b.State())
}

func TestPrepare_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := NewCaptureBuilder("person", personInsert+" -- %sql_payload{string}", fakeConn(&fakeDB{}), WithLogger(zap.New(core)))
	require.NoError(t, b.Prepare())

	warn := logs.FilterMessage("malformed placeholder kept as literal text").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)

	converted := logs.FilterMessage("converted").All()
	require.Len(t, converted, 1)
	fields := converted[0].ContextMap()
	assert.Equal(t, "person", fields["builder"])
	assert.Equal(t, "INSERT INTO person (id, name, dob) VALUES (#id, #name, #dob) -- %sql_payload{string}", fields["statement"])
}

func TestPrepare_SharesPlans(t *testing.T) {
	plans := cache.NewPlanCache(8)
	a := NewCaptureBuilder("a", personInsert, fakeConn(&fakeDB{}), WithPlanCache(plans))
	b := NewCaptureBuilder("b", personInsert, fakeConn(&fakeDB{}), WithPlanCache(plans))
	require.NoError(t, a.Prepare())
	require.NoError(t, b.Prepare())

	assert.Same(t, a.Plan(), b.Plan())
	assert.Equal(t, 1, plans.Len())
}

func TestQueryBuilder_FirstRowMetadata(t *testing.T) {
	db := &fakeDB{
		columns: []string{"name", "age", "nickname"},
		rows: [][]any{
			{"Rachel", int64(34), nil},
			{"Ignored", int64(1), "x"},
		},
	}
	b := NewQueryBuilder("lookup",
		"SELECT name, age, nickname FROM person WHERE id = %sql_metadata{string:person-id}",
		fakeConn(db), FirstRowMetadataTranslator{Prefix: "person."})
	start(t, b)

	msg := message.NewWithID("m-1", nil)
	msg.SetMetadata("person-id", "42")
	msg.SetMetadata("person.nickname", "stale")
	require.NoError(t, b.Service(context.Background(), msg))

	assert.Equal(t, "SELECT name, age, nickname FROM person WHERE id = $1", db.calls[0].query)
	assert.Equal(t, []any{"42"}, db.calls[0].args)
	assert.Equal(t, map[string]string{
		"person-id":   "42",
		"person.name": "Rachel",
		"person.age":  "34",
	}, msg.MetadataMap())
}

func TestQueryBuilder_Document(t *testing.T) {
	db := &fakeDB{
		columns: []string{"person_id", "first_name"},
		rows: [][]any{
			{int64(1), "Rachel"},
			{int64(2), "Ross"},
		},
	}
	for _, f := range []format.Format{format.YAML, format.JSON} {
		t.Run(string(f), func(t *testing.T) {
			tr := DocumentTranslator{Element: "person", Format: f, Keys: KeyCamel}
			b := NewQueryBuilder("people", "SELECT person_id, first_name FROM person", fakeConn(db), tr)
			start(t, b)

			msg := message.NewWithID("m-1", []byte("ignored"))
			require.NoError(t, b.Service(context.Background(), msg))

			var doc map[string][]struct {
				PersonID  int    `yaml:"personId"`
				FirstName string `yaml:"firstName"`
			}
			require.NoError(t, format.Unmarshal(msg.Payload(), &doc))
			require.Len(t, doc["people"], 2)
			assert.Equal(t, 2, doc["people"][1].PersonID)
			assert.Equal(t, "Rachel", doc["people"][0].FirstName)
		})
	}
}

func TestDocumentTranslator_Empty(t *testing.T) {
	msg := message.NewWithID("m-1", nil)
	err := DocumentTranslator{}.Translate(&fakeRows{columns: []string{"a"}, i: -1}, msg)
	require.NoError(t, err)
	assert.Equal(t, "rows: []\n", msg.Content())
}

func TestQueryBuilder_DefaultTranslator(t *testing.T) {
	b := NewQueryBuilder("q", "SELECT 1", fakeConn(&fakeDB{}), nil)
	assert.IsType(t, NoOpTranslator{}, b.Translator())
}

func TestKeyStyle(t *testing.T) {
	tests := []struct {
		style KeyStyle
		in    string
		want  string
	}{
		{KeyColumn, "first_name", "first_name"},
		{KeySnake, "FirstName", "first_name"},
		{KeySnake, "UserID", "user_id"},
		{KeySnake, "HTTPServer", "http_server"},
		{KeyCamel, "first_name", "firstName"},
		{KeyCamel, "ID", "id"},
		{KeyPascal, "first_name", "FirstName"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.style.Key(tt.in), tt.in)
	}

	_, err := ParseKeyStyle("kebab")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	conn := fakeConn(&fakeDB{})

	s, err := New(Spec{Name: "c", Kind: KindCapture, Statement: personInsert}, conn)
	require.NoError(t, err)
	assert.IsType(t, &CaptureBuilder{}, s)

	s, err = New(Spec{
		Name:       "q",
		Kind:       KindQuery,
		Statement:  "SELECT 1",
		Translator: TranslatorSpec{Type: TranslatorDocument, Element: "person", Format: "json", Keys: "camel"},
	}, conn)
	require.NoError(t, err)
	q := s.(*QueryBuilder)
	assert.Equal(t, DocumentTranslator{Element: "person", Format: format.JSON, Keys: KeyCamel}, q.Translator())

	_, err = New(Spec{Name: "x", Kind: "delete"}, conn)
	assert.ErrorContains(t, err, `unknown kind "delete"`)

	_, err = New(Spec{Name: "x", Kind: KindQuery, Translator: TranslatorSpec{Type: "csv"}}, conn)
	assert.ErrorContains(t, err, `unknown translator "csv"`)

	_, err = New(Spec{Name: "x", Kind: KindCapture, Translator: TranslatorSpec{Type: TranslatorDocument}}, conn)
	assert.ErrorContains(t, err, "capture services take no translator")
}
