// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/response.schema.json
var responseSchemaJSON string

var (
	responseSchemaOnce sync.Once
	responseSchema     *jsonschema.Schema
	responseSchemaErr  error
)

func compiledResponseSchema() (*jsonschema.Schema, error) {
	responseSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("response.schema.json", strings.NewReader(responseSchemaJSON)); err != nil {
			responseSchemaErr = err
			return
		}
		responseSchema, responseSchemaErr = compiler.Compile("response.schema.json")
	})
	return responseSchema, responseSchemaErr
}

// interpret turns a provider answer into a Result. A JSON object that
// passes the response schema lands in Data; anything else is kept as text.
func interpret(provider, content string, wantJSON bool) Result {
	res := Result{Status: StatusOK, Provider: provider}
	content = strings.TrimSpace(content)
	if !wantJSON {
		res.Text = content
		return res
	}

	body := stripFence(content)
	var v any
	if err := json.Unmarshal([]byte(body), &v); err == nil {
		if schema, err := compiledResponseSchema(); err == nil && schema.Validate(v) == nil {
			res.Data = v.(map[string]any)
			res.Recommendations = stringList(res.Data["recommendations"])
			return res
		}
	}
	res.Text = content
	res.Data = map[string]any{"format": "text"}
	return res
}

// stripFence removes a ```json ... ``` wrapper some models add.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
