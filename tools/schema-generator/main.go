package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/mattsolo1/grove-policyscan/cmd"
	"github.com/mattsolo1/grove-policyscan/pkg/state"
)

func writeSchema(r *jsonschema.Reflector, v any, title, description, file string) {
	schema := r.Reflect(v)
	schema.Title = title
	schema.Description = description

	// Every key has a default
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Successfully generated schema at %s", file)
}

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	writeSchema(r, &cmd.Config{},
		"Policyscan Configuration",
		"Schema for policyscan.yml.",
		"policyscan.schema.json")

	writeSchema(r, &state.State{},
		"Policyscan State",
		"Schema for the state file kept in the user config directory.",
		"policyscan-state.schema.json")
}
