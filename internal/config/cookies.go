package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const tokenCookieName = "token"

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func NewCookies(jwt *JWT) (*Cookies, error) {
	domain, ok := os.LookupEnv("COOKIES_DOMAIN")
	if !ok {
		return nil, fmt.Errorf("COOKIES_DOMAIN env variable is not set")
	}

	secureStr, ok := os.LookupEnv("COOKIES_SECURE")
	if !ok {
		return nil, fmt.Errorf("COOKIES_SECURE env variable is not set")
	}
	secure := secureStr != "0"

	sameSite := http.SameSiteStrictMode
	switch strings.ToUpper(os.Getenv("COOKIES_SAMESITE")) {
	case "DEFAULT":
		sameSite = http.SameSiteDefaultMode
	case "LAX":
		sameSite = http.SameSiteLaxMode
	case "NONE":
		sameSite = http.SameSiteNoneMode
	}

	return &Cookies{
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		jwt:      jwt,
	}, nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Path:     "/",
		Value:    token,
		Expires:  time.Now().Add(c.jwt.TokenLifetime),
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		return nil, err
	}
	return c.jwt.ParsePlayerClaims(cookie.Value)
}
