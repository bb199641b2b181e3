package rows

import (
	"fmt"
	"regexp"
	"strings"

	"inventory_viewer/internal/schema"
)

// Attachment names an image-bearing column.
type Attachment string

const (
	// DR is the delivery receipt image, column D.
	DR Attachment = "DR"
	// CBM is the cubic-volume measurement image, column R.
	CBM Attachment = "CBM"
)

// ParseAttachment accepts "dr" or "cbm" in any case.
func ParseAttachment(s string) (Attachment, error) {
	switch Attachment(strings.ToUpper(strings.TrimSpace(s))) {
	case DR:
		return DR, nil
	case CBM:
		return CBM, nil
	default:
		return "", fmt.Errorf("unknown attachment type %q (want DR or CBM)", s)
	}
}

// Field is the schema entry holding the attachment link.
func (a Attachment) Field() schema.Field {
	if a == CBM {
		return schema.Lookup(schema.CBMLink)
	}
	return schema.Lookup(schema.DRLink)
}

// Link returns the attachment link stored on r.
func (a Attachment) Link(r SheetRow) string {
	if a == CBM {
		return r.CBMLink
	}
	return r.DRLink
}

var driveIDRe = regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`)

// DriveFileID extracts the file identifier from an attachment link, or "" if none is embedded.
func DriveFileID(link string) string {
	m := driveIDRe.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}

// ThumbnailURL is the small preview of a stored image.
func ThumbnailURL(fileID string) string {
	return fmt.Sprintf("https://lh3.googleusercontent.com/d/%s=s200", fileID)
}

// ImageURLs lists the places a full-size image can be loaded from, in the order to try them. The last
// entry opens the file in the browser and always works for viewers with access.
func ImageURLs(fileID string) []string {
	return []string{
		fmt.Sprintf("https://lh3.googleusercontent.com/d/%s=s3000", fileID),
		fmt.Sprintf("https://drive.google.com/uc?export=view&id=%s", fileID),
		fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w1000", fileID),
		fmt.Sprintf("https://drive.google.com/open?id=%s", fileID),
	}
}
