package models

import (
	"encoding/json"
	"testing"
)

func TestResultSetPayloadShape(t *testing.T) {
	rs := ResultSet{
		Columns: []Column{
			{Name: "id", Type: TypeInteger},
			{Name: "name", Type: TypeString},
		},
		Rows: []Row{
			{"id": 1, "name": "alpha"},
		},
	}

	data, err := json.Marshal(rs)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"columns":[{"name":"id","type":"integer"},{"name":"name","type":"string"}],"rows":[{"id":1,"name":"alpha"}]}`
	if string(data) != want {
		t.Fatalf("payload = %s\nwant    = %s", data, want)
	}
}

func TestTableSchemaPayloadShape(t *testing.T) {
	ts := TableSchema{Name: "s1.t1", Columns: []string{"c1", "c2"}}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"name":"s1.t1","columns":["c1","c2"]}`
	if string(data) != want {
		t.Fatalf("payload = %s", data)
	}
}
