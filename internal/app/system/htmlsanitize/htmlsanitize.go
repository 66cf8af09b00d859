// Package htmlsanitize inspects user-supplied text that clients may render
// as HTML (project descriptions, issue flag messages).
//
// Values are stored exactly as sent. Text such as "List<Card>" or
// "a < b && c > d" is ordinary in class descriptions, so nothing is stripped
// or escaped; a value that carries markup a browser would execute is
// rejected instead.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// loaderElements fetch or run something only through their attributes, so a
// bare "<Frame>" or "<Object>" (as in "Stack<Frame>") stays plain text.
// A bare <script> is always active.
var loaderElements = map[string]bool{
	"iframe":   true,
	"frame":    true,
	"frameset": true,
	"base":     true,
	"meta":     true,
	"link":     true,
	"object":   true,
	"embed":    true,
	"applet":   true,
}

var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"data":       true,
	"xlink:href": true,
	"background": true,
	"poster":     true,
}

// HasActiveContent reports whether s contains executable markup: script-like
// elements, event handler attributes, or URLs with a scheme the UGC policy
// refuses (javascript:, data:, vbscript: and the like).
func HasActiveContent(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := nethtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return false
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "script" || (loaderElements[tag] && hasAttr) {
				return true
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if activeAttr(string(key), string(val)) {
					return true
				}
			}
		}
	}
}

// A valueless attribute does nothing, which keeps "Pair<A, OneThing>" inert.
func activeAttr(key, val string) bool {
	switch {
	case strings.HasPrefix(key, "on"), key == "srcdoc":
		return strings.TrimSpace(val) != ""
	case urlAttrs[key]:
		return !SafeURL(val)
	}
	return false
}

// SafeURL reports whether the UGC policy would keep u as a link target.
func SafeURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return true
	}
	out := ugc().Sanitize(`<a href="` + html.EscapeString(u) + `">x</a>`)
	return strings.Contains(out, "href=")
}
