// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// remotefsd serves the remote file-operation RPC. Configuration comes
// from the environment: serverport15440 selects the TCP port (default
// 20080) and metrics15440, when set to host:port, exposes Prometheus
// metrics over HTTP at /metrics.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"code.hybscloud.com/remotefs/internal/kernel"
	"code.hybscloud.com/remotefs/server"
	"code.hybscloud.com/remotefs/transport"
)

const envMetricsAddr = "metrics15440"

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if v, err := kernel.Version(); err == nil {
		log.WithField("kernel", v.String()).Info("starting remotefsd")
	} else {
		log.WithError(err).Warn("starting remotefsd, kernel version unknown")
	}

	port, err := transport.PortFromEnv()
	if err != nil {
		log.WithError(err).Fatal("bad port configuration")
	}

	registry := prometheus.NewRegistry()
	if addr := os.Getenv(envMetricsAddr); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.WithError(err).Error("metrics endpoint failed")
			}
		}()
		log.WithField("addr", addr).Info("metrics endpoint up")
	}

	srv := server.New(
		server.WithLogger(log),
		server.WithRegistry(registry),
		server.WithPort(port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("shutting down")
		srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("serve failed")
	}
}
