package utils

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/mpapenbr/racemetrics/log"
)

// WaitForTCP dials addr until it accepts a connection or ctx is done.
func WaitForTCP(ctx context.Context, addr string) error {
	start := time.Now()
	log.Debug("wait for tcp connection", log.String("addr", addr))
	var d net.Dialer
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			log.Debug("tcp connection successful",
				log.String("addr", addr),
				log.Duration("duration", time.Since(start)))
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s could not be reached after %v", addr, time.Since(start))
		case <-ticker.C:
		}
	}
}

var (
	dbURLRegex   = regexp.MustCompile(`^postgres(?:ql)?://(?:.*@)?(?P<host>[^:/?]+)(?::(?P<port>\d+))?`)
	natsURLRegex = regexp.MustCompile(`^(?:nats|tls)://(?:.*@)?(?P<host>[^:/?,]+)(?::(?P<port>\d+))?`)
)

// ExtractFromDBURL returns host:port of a postgres url, "" if url does not
// look like one.
func ExtractFromDBURL(url string) string {
	return hostPort(dbURLRegex, url, "5432")
}

// ExtractFromNatsURL returns host:port of the first server of a nats url.
func ExtractFromNatsURL(url string) string {
	return hostPort(natsURLRegex, url, "4222")
}

func hostPort(re *regexp.Regexp, url, defaultPort string) string {
	match := re.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	host := match[re.SubexpIndex("host")]
	port := match[re.SubexpIndex("port")]
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}
