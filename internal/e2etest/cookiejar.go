package e2etest

import (
	"github.com/myrjola/guessthechild/internal/errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// plainHTTPJar keeps cookies marked Secure so that the session and CSRF cookies survive on the plain HTTP
// test server.
type plainHTTPJar struct {
	*cookiejar.Jar
}

func newPlainHTTPJar() (*plainHTTPJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}
	return &plainHTTPJar{Jar: jar}, nil
}

func (j *plainHTTPJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.Jar.SetCookies(u, cookies)
}
