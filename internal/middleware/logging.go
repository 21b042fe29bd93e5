package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/pkg"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _ := pkg.ReadUserIP(r)
			log.Tracef("====> request [%s] path: [%s] [ip: %s] [UA: %s]", r.Method, r.URL.Path, ip, r.UserAgent())
			next.ServeHTTP(w, r)
		})
	}
}
