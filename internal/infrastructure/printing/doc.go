// Package printing renders order invoices. HTML comes from an embedded
// html/template; PDF output is printed by headless Chrome through chromedp.
package printing
