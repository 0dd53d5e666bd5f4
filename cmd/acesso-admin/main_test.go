package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gestaocx/acesso-api/internal/domain/model"
)

func TestRenderGrantTableListsEdges(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer func() {
		os.Stdout = oldStdout
	}()

	os.Stdout = w

	err = renderGrantTable(map[string][]*model.GrantDetail{
		"ana@example.com": {
			{PapelNome: "Gestor", SistemaNome: "Contratos"},
			{PapelNome: "Leitor", SistemaNome: "Patrimonio"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	os.Stdout = oldStdout

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	outStr := string(output)
	require.Contains(t, outStr, "ana@example.com")
	require.Contains(t, outStr, "Contratos")
	require.Contains(t, outStr, "Gestor")
	require.Contains(t, outStr, "Total grants: 2")
}

func TestRenderGrantTableEmpty(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer func() {
		os.Stdout = oldStdout
	}()

	os.Stdout = w

	err = renderGrantTable(map[string][]*model.GrantDetail{})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	os.Stdout = oldStdout

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	require.Contains(t, string(output), "(no grants found)")
}

func TestParseGrantFlagsRequiresCoordinates(t *testing.T) {
	_, err := parseGrantFlags("grant", []string{"--email", "ana@example.com"})
	require.Error(t, err)

	opts, err := parseGrantFlags("grant", []string{
		"--email", "ana@example.com",
		"--papel-id", "p1",
		"--sistema-id", "s1",
	})
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", opts.Email)
}

func TestIsLikelyRemoteHost(t *testing.T) {
	require.False(t, isLikelyRemoteHost("localhost"))
	require.False(t, isLikelyRemoteHost("127.0.0.1"))
	require.False(t, isLikelyRemoteHost("10.0.0.5"))
	require.True(t, isLikelyRemoteHost("db.prod.example.com"))
}
