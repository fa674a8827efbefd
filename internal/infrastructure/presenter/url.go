package presenter

import "net/url"

func isAbsoluteURL(target string) bool {
	u, err := url.Parse(target)
	return err == nil && u.Scheme != "" && u.Host != ""
}
