package middlewarectx

import (
	"net"
	"net/http"
)

// ClientIP возвращает адрес клиента: заголовок X-Real-IP, выставляемый
// обратным прокси, либо RemoteAddr без порта. Все обработчики, пишущие
// адрес в журнал аудита или события безопасности, обязаны использовать
// эту функцию, чтобы адрес трактовался одинаково.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
