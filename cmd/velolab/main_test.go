package main

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocumentIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("../../public/docs/v1/openapi.yml")
	require.NoError(t, err)
	require.NoError(t, doc.Validate(loader.Context))

	for _, path := range []string{
		"/billing/checkout",
		"/billing/portal",
		"/billing/subscription",
		"/team/summary",
		"/forms/{uuid}/entries",
	} {
		require.NotNil(t, doc.Paths.Find(path), "missing path %s", path)
	}
}
