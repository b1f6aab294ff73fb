package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// LabelledCommentsCSV is a raw export with the quirks the loader cleans up:
// spaced and mixed-case headers, a bracketed subcategory, a code-switching
// label variant, one missing label and one exact duplicate row.
const LabelledCommentsCSV = `Comment ID,Text,Category,SubCategory,Language,Likes,Published At
c1,Wewe ni mjinga sana,Bullying,[Insult],Mixed (Code-switching),3,2024-03-01T09:15:00Z
c2,Great video thanks,Not Bullying,[None],English,10,2024-03-02T12:00:00Z
c3,Umeharibu kila kitu,Bullying,[Threat],Swahili,0,2024-03-02T21:30:00Z
c4,nice one bro,Not Bullying,[None],English,,2024-03-03T23:05:00Z
c2,Great video thanks,Not Bullying,[None],English,10,2024-03-02T12:00:00Z
`

// CleanCommentsCSV is already in canonical form.
const CleanCommentsCSV = `text,category,subcategory,language,likes,published_at
Cat cat dog,Bullying,Insult,English,5,2024-03-01T12:00:00Z
you are bad,Bullying,Threat,Code Switching,1,2024-03-02T18:00:00Z
good work,Not Bullying,None,English,7,2024-03-03T06:30:00Z
`

// WriteFixtureCSV writes content to a CSV file inside t.TempDir() and returns its path.
func WriteFixtureCSV(t *testing.T, content string) string {
	t.Helper()
	return WriteFixture(t, "dataset.csv", content)
}

// WriteFixture writes content to name inside t.TempDir() and returns the path.
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
