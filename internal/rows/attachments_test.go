package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriveFileID(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://drive.google.com/open?id=abc123", "abc123"},
		{"https://drive.google.com/uc?export=view&id=A-b_9&x=1", "A-b_9"},
		{"see https://drive.google.com/open?id=xyz for details", "xyz"},
		{"https://drive.google.com/file/d/abc/view", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DriveFileID(tt.link), "DriveFileID(%q)", tt.link)
	}
}

func TestParseAttachment(t *testing.T) {
	a, err := ParseAttachment("dr")
	require.NoError(t, err)
	assert.Equal(t, DR, a)
	assert.Equal(t, "D", a.Field().Column)

	a, err = ParseAttachment(" CBM ")
	require.NoError(t, err)
	assert.Equal(t, CBM, a)
	assert.Equal(t, "R", a.Field().Column)

	_, err = ParseAttachment("invoice")
	assert.Error(t, err)
}

func TestAttachmentLink(t *testing.T) {
	r := SheetRow{DRLink: "d", CBMLink: "c"}
	assert.Equal(t, "d", DR.Link(r))
	assert.Equal(t, "c", CBM.Link(r))
}

func TestImageURLs(t *testing.T) {
	urls := ImageURLs("abc")
	require.Len(t, urls, 4)
	assert.Equal(t, "https://lh3.googleusercontent.com/d/abc=s3000", urls[0])
	assert.Equal(t, "https://drive.google.com/open?id=abc", urls[3])
	assert.Equal(t, "https://lh3.googleusercontent.com/d/abc=s200", ThumbnailURL("abc"))
}
