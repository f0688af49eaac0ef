package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"
	"github.com/todoapp/todo-api/internal/todo"
)

func TestSwaggerEndpoints(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g)

	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")

	req2 := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req2)
	require.Equal(t, 200, w2.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &doc))
	require.Equal(t, "3.0.0", doc["openapi"])
	paths := doc["paths"].(map[string]interface{})
	require.Contains(t, paths, "/todos")
	require.Contains(t, paths, "/todos/{id}")
	item := paths["/todos/{id}"].(map[string]interface{})
	for _, m := range []string{"get", "put", "patch", "delete"} {
		require.Contains(t, item, m)
	}
}

func compileTodoSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	require.NoError(t, compiler.AddResource("todo.schema.json", strings.NewReader(TodoSchema)))
	schema, err := compiler.Compile("todo.schema.json")
	require.NoError(t, err)
	return schema
}

func asJSONValue(t *testing.T, v interface{}) interface{} {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestTodoSchema_MatchesModel(t *testing.T) {
	schema := compileTodoSchema(t)

	td := &todo.Todo{ID: 7, Title: "Buy milk", Status: todo.StatusInProgress, CreatedAt: time.Now().UTC()}
	require.NoError(t, schema.Validate(asJSONValue(t, td)))

	td.Status = todo.Status("archived")
	require.Error(t, schema.Validate(asJSONValue(t, td)))

	td.Status = todo.StatusDone
	td.Title = strings.Repeat("x", todo.TitleMaxLength+1)
	require.Error(t, schema.Validate(asJSONValue(t, td)))
}

func TestTodoSchema_Served(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/todo.schema.json", nil))
	require.Equal(t, 200, w.Code)
	require.JSONEq(t, TodoSchema, w.Body.String())
}
