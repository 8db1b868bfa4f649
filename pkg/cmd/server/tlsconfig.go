package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/racemetrics/log"
)

// certReloader serves the key pair from disk and reloads it whenever one of
// the files changes.
type certReloader struct {
	certFile string
	keyFile  string
	log      *log.Logger
	mu       sync.RWMutex
	cert     *tls.Certificate
}

// newTLSConfig returns nil if no key pair is configured.
//
//nolint:whitespace // editor/linter issue
func newTLSConfig(
	ctx context.Context, certFile, keyFile, caFile string,
) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, nil
	}
	r := &certReloader{
		certFile: certFile,
		keyFile:  keyFile,
		log:      log.Default().Named("server.tls"),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	ret := &tls.Config{
		GetCertificate: r.getCertificate,
		MinVersion:     tls.VersionTLS13,
	}
	if caFile != "" {
		caCert, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("no certificates found in %s", caFile)
		}
		ret.ClientCAs = pool
		ret.ClientAuth = tls.VerifyClientCertIfGiven
	}
	if err := r.watch(ctx); err != nil {
		r.log.Warn("certificates will not be reloaded", log.ErrorField(err))
	}
	return ret, nil
}

func (r *certReloader) getCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

func (r *certReloader) load() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cert = &cert
	return nil
}

func (r *certReloader) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, f := range []string{r.certFile, r.keyFile} {
		if err := watcher.Add(f); err != nil {
			watcher.Close()
			return err
		}
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Chmod) {

					continue
				}
				// the old pair stays active if the files are mid-update
				if err := r.load(); err != nil {
					r.log.Warn("reload failed", log.ErrorField(err))
					continue
				}
				r.log.Info("certificate reloaded", log.String("file", event.Name))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.log.Error("watcher error", log.ErrorField(err))
			}
		}
	}()
	return nil
}
