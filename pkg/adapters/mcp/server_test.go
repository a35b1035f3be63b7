package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keysort/internal/runtime"
	"github.com/aretw0/keysort/pkg/domain"
)

func treeKey(t *testing.T) *domain.Key {
	t.Helper()
	arrangement := domain.Trait{Name: "arrangement", TrueLabel: "opposite", FalseLabel: "alternate"}
	leafType := domain.Trait{Name: "leaf_type", TrueLabel: "compound", FalseLabel: "simple"}
	plant := func(genus, species, arr, leaf string) domain.Item {
		return domain.NewItem(genus, species).
			With("arrangement", domain.Label(arr)).
			With("leaf_type", domain.Label(leaf))
	}
	key, err := runtime.NewBuilder().Build(context.Background(), []domain.Item{
		plant("Prunus", "serotina", "alternate", "simple"),
		plant("Carya", "ovata", "alternate", "compound"),
		plant("Fraxinus", "americana", "opposite", "compound"),
		plant("Acer", "rubrum", "opposite", "simple"),
	}, []domain.Trait{arrangement, leafType})
	require.NoError(t, err)
	return key
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestHandleIdentify(t *testing.T) {
	s := NewServer(treeKey(t), "test")
	ctx := context.Background()

	res, err := s.handleIdentify(ctx, mcp.CallToolRequest{}, IdentifyArgs{Answers: `{"arrangement": true, "leaf_type": true}`})
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.Equal(t, "Fraxinus americana", res.Item.Name())
	assert.Len(t, res.Path, 2)

	res, err = s.handleIdentify(ctx, mcp.CallToolRequest{}, IdentifyArgs{Labels: `{"arrangement": "alternate\u0000", "leaf_type": "simple"}`})
	require.NoError(t, err)
	assert.Equal(t, "Prunus serotina", res.Item.Name())
}

func TestHandleIdentify_Errors(t *testing.T) {
	s := NewServer(treeKey(t), "test")
	ctx := context.Background()

	tests := []struct {
		name string
		args IdentifyArgs
		is   error
	}{
		{"neither", IdentifyArgs{}, nil},
		{"both", IdentifyArgs{Answers: "{}", Labels: "{}"}, nil},
		{"bad json", IdentifyArgs{Answers: "{"}, nil},
		{"missing answer", IdentifyArgs{Answers: `{}`}, domain.ErrMissingAnswer},
		{"bad label", IdentifyArgs{Labels: `{"arrangement": "whorled"}`}, domain.ErrUnrecognizedValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleIdentify(ctx, mcp.CallToolRequest{}, tt.args)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestHandleRenderKey(t *testing.T) {
	s := NewServer(treeKey(t), "test")
	ctx := context.Background()

	req := func(format string) mcp.CallToolRequest {
		var r mcp.CallToolRequest
		r.Params.Name = "render_key"
		if format != "" {
			r.Params.Arguments = map[string]any{"format": format}
		}
		return r
	}

	res, err := s.handleRenderKey(ctx, req(""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text(t, res), "arrangement: opposite"))

	res, err = s.handleRenderKey(ctx, req("markdown"))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "*Acer rubrum*")

	res, err = s.handleRenderKey(ctx, req("json"))
	require.NoError(t, err)
	loaded := domain.NewKey()
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), loaded))
	assert.Equal(t, 7, loaded.Len())

	res, err = s.handleRenderKey(ctx, req("pdf"))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_ListsToolsAndResources(t *testing.T) {
	s := NewServer(treeKey(t), "test")
	ctx := context.Background()

	send := func(msg string) string {
		resp := s.MCPServer().HandleMessage(ctx, json.RawMessage(msg))
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		return string(data)
	}

	send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)

	tools := send(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	for _, name := range []string{"render_key", "identify", "get_graph"} {
		assert.Contains(t, tools, `"`+name+`"`)
	}

	resources := send(`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)
	assert.Contains(t, resources, keyURI)
	assert.Contains(t, resources, graphURI)
}
