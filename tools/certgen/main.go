// Package main writes a self-signed server certificate and key for running
// the blog API over HTTPS locally. Point the server at the output with
// -tls-cert and -tls-key.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/quill/internal/certgen"
)

func main() {
	dir := flag.String("out", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	validFor := flag.Duration("valid-for", 365*24*time.Hour, "certificate validity")
	flag.Parse()

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(names, *validFor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate certificate: %v\n", err)
		os.Exit(1)
	}

	certPath := filepath.Join(*dir, "server.crt")
	keyPath := filepath.Join(*dir, "server.key")
	if err := certgen.WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Certificates generated: %s, %s\n", certPath, keyPath)
}
