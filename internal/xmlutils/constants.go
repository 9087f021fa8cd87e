// Package xmlutils provides XPath helpers over SMS Backup & Restore archives.
package xmlutils

// XPath expressions for the SMS Backup & Restore archive layout. Message
// attribute paths are relative to a single <sms> node.
const (
	XPathRoot     = "/smses"
	XPathCount    = "/smses/@count"
	XPathMessages = "/smses/sms"

	XPathBody         = "@body"
	XPathDate         = "@date"
	XPathAddress      = "@address"
	XPathReadableDate = "@readable_date"
)
