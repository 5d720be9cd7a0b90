package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocIsRegistered(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc returned error: %v", err)
	}
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("rendered doc is not JSON: %v", err)
	}
	if doc.Info.Title != "kanban-web" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
	for path, method := range map[string]string{
		"/login":                                  "post",
		"/workspaces/{id}/members":                "post",
		"/workspaces/{id}/members/{memberId}/role": "put",
		"/boards/{id}/members/{memberId}/leader":   "post",
	} {
		if _, ok := doc.Paths[path][method]; !ok {
			t.Errorf("%s %s is not documented", method, path)
		}
	}
}
