package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readDocument decodes a JSON object from arg: "-" reads stdin, a value
// starting with '{' or '[' is used inline, anything else is a file path.
func readDocument(arg string, stdin io.Reader) (interface{}, error) {
	var data []byte
	var err error
	switch {
	case arg == "-":
		data, err = io.ReadAll(stdin)
	case len(arg) > 0 && (arg[0] == '{' || arg[0] == '['):
		data = []byte(arg)
	default:
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("input is not valid JSON: %w", err)
	}
	return doc, nil
}

func readObject(arg string, stdin io.Reader) (map[string]interface{}, error) {
	doc, err := readDocument(arg, stdin)
	if err != nil {
		return nil, err
	}
	m, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("input must be a JSON object")
	}
	return m, nil
}
