package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// useMemFs swaps the command filesystem for an in-memory one.
func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := appFs
	appFs = afero.NewMemMapFs()
	t.Cleanup(func() { appFs = prev })
	return appFs
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

const rawContactsJSON = `[
  {"name": "Jo", "email": "jo@x.com", "company": "X", "title": "CMO"},
  {"name": "Jo", "email": "jo2@x.com", "company": "X", "title": "CEO"},
  {"name": "Jo", "email": null, "company": "Y", "title": null}
]`

func TestDedupeCommand(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "raw.json", []byte(rawContactsJSON), 0o644))

	out, err := execute(t, "dedupe", "--in", "raw.json", "--out", "clean.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed duplicates: 1 entries deleted")

	var clean []model.Contact
	require.NoError(t, artifact.ReadJSON(fs, "clean.json", &clean))
	require.Len(t, clean, 2)
	assert.Equal(t, "jo@x.com", *clean[0].Email)
	assert.Equal(t, "Y", *clean[1].Company)
	assert.Nil(t, clean[1].Email)
}

func TestDedupeCommand_MissingInput(t *testing.T) {
	useMemFs(t)
	_, err := execute(t, "dedupe", "--in", "nope.json", "--out", "clean.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load contacts")
}

func TestResolveCommand(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "ref.json", []byte(`[{"name": "Acme Printing Co", "url": "acme.com"}]`), 0o644))

	out, err := execute(t, "resolve", "--reference", "ref.json", "--name", "ACME Printing", "--name", "Globex")
	require.NoError(t, err)

	var urls map[string]*string
	require.NoError(t, json.Unmarshal([]byte(out), &urls))
	require.Contains(t, urls, "Globex")
	assert.Nil(t, urls["Globex"])
	require.NotNil(t, urls["ACME Printing"])
	assert.Equal(t, "acme.com", *urls["ACME Printing"])
}

func TestEmailsCommand(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "clean.json", []byte(`[{"name": "Jo Smith", "company": "X"}, {"name": null, "company": null}]`), 0o644))

	out, err := execute(t, "emails", "--in", "clean.json", "--dir", "drafts")
	require.NoError(t, err)
	assert.Contains(t, out, "2 personalized emails generated in 'drafts/' directory.")

	body, err := afero.ReadFile(fs, "drafts/email_Jo_Smith.txt")
	require.NoError(t, err)
	assert.Contains(t, string(body), "Hi Jo Smith,")
	assert.True(t, artifact.Exists(fs, "drafts/email_there.txt"))
}

func TestExportXLSXCommand(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "clean.json", []byte(rawContactsJSON), 0o644))

	out, err := execute(t, "export", "xlsx", "--in", "clean.json", "--out", "book.xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, "3 contacts written to book.xlsx")
	assert.True(t, artifact.Exists(fs, "book.xlsx"))
}
