package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/netip"
	"strings"

	"github.com/9seconds/geoipfilter/geolib"
	"golang.org/x/sync/errgroup"
)

const checkConcurrency = 16

func formatVerdict(verdict geolib.Verdict) string {
	action := "allow"
	if verdict.Blocked {
		action = "block"
	}

	country := verdict.Country.String()
	if name := verdict.Country.CommonName(); name != "" {
		country += " (" + name + ")"
	}

	return fmt.Sprintf("%s\t%s\t%s", verdict.IP, country, action)
}

// runCheck evaluates all addresses concurrently and prints verdicts in
// the order of addresses.
func runCheck(ctx context.Context, out io.Writer, filter *geolib.Filter, addresses []string) error {
	ips := make([]netip.Addr, len(addresses))

	for i, v := range addresses {
		ip, err := geolib.ParseRemoteAddr(v)
		if err != nil {
			return fmt.Errorf("incorrect address %s: %w", v, err)
		}

		ips[i] = ip
	}

	verdicts := make([]geolib.Verdict, len(ips))
	group, ctx := errgroup.WithContext(ctx)

	group.SetLimit(checkConcurrency)

	for i := range ips {
		idx := i

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			verdicts[idx] = filter.Evaluate(ctx, ips[idx])

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, v := range verdicts {
		fmt.Fprintln(out, formatVerdict(v))
	}

	return nil
}

// runStream reads addresses line by line and prints a verdict for each
// of them. Empty lines and lines starting with # are skipped.
func runStream(ctx context.Context, in io.Reader, out io.Writer, holder *filterHolder) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			fmt.Fprintln(out, formatVerdict(holder.Evaluate(ctx, line)))
		}
	}
}
