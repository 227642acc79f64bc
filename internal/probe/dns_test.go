package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// startTestDNS runs a local authoritative server answering for example.test.
func startTestDNS(t *testing.T) string {
	t.Helper()

	mux := dns.NewServeMux()
	mux.HandleFunc("example.test.", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		q := r.Question[0]
		switch q.Qtype {
		case dns.TypeA:
			m.Answer = append(m.Answer, &dns.A{
				Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A:   net.ParseIP("192.0.2.10"),
			})
		case dns.TypeSOA:
			m.Answer = append(m.Answer, &dns.SOA{
				Hdr:     dns.RR_Header{Name: q.Name, Rrtype: dns.TypeSOA, Class: dns.ClassINET, Ttl: 60},
				Ns:      "ns1.example.test.",
				Mbox:    "hostmaster.example.test.",
				Serial:  2024010101,
				Refresh: 7200,
				Retry:   3600,
				Expire:  1209600,
				Minttl:  300,
			})
		}
		_ = w.WriteMsg(m)
	})
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeNameError)
		_ = w.WriteMsg(m)
	})

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to bind test DNS server: %v", err)
	}

	server := &dns.Server{PacketConn: pc, Handler: mux}
	go func() { _ = server.ActivateAndServe() }()
	t.Cleanup(func() { _ = server.Shutdown() })

	return pc.LocalAddr().String()
}

func TestResolver_LookupA(t *testing.T) {
	addr := startTestDNS(t)
	resolver := &Resolver{Nameserver: addr, Timeout: 2 * time.Second}

	ip, ok := resolver.LookupA(context.Background(), "www.example.test")
	if !ok {
		t.Fatal("expected www.example.test to resolve")
	}
	if ip != "192.0.2.10" {
		t.Errorf("LookupA returned %q, want 192.0.2.10", ip)
	}
}

func TestResolver_LookupA_Unresolved(t *testing.T) {
	addr := startTestDNS(t)
	resolver := &Resolver{Nameserver: addr, Timeout: 2 * time.Second}

	ip, ok := resolver.LookupA(context.Background(), "nonexistent.invalid")
	if ok {
		t.Errorf("expected NXDOMAIN to report unresolved, got ip %q", ip)
	}
	if ip != "" {
		t.Errorf("unresolved lookup should return empty ip, got %q", ip)
	}
}

func TestResolver_SOAMname(t *testing.T) {
	addr := startTestDNS(t)
	resolver := &Resolver{Nameserver: addr, Timeout: 2 * time.Second}

	mname := resolver.SOAMname(context.Background(), "example.test")
	if mname != "ns1.example.test" {
		t.Errorf("SOAMname = %q, want ns1.example.test (no trailing dot)", mname)
	}
}

func TestResolver_SOAMname_NeutralOnFailure(t *testing.T) {
	addr := startTestDNS(t)
	resolver := &Resolver{Nameserver: addr, Timeout: 2 * time.Second}

	if mname := resolver.SOAMname(context.Background(), "nonexistent.invalid"); mname != "" {
		t.Errorf("expected empty MNAME for NXDOMAIN, got %q", mname)
	}
}

func TestResolver_UnreachableNameserver(t *testing.T) {
	// 192.0.2.0/24 is TEST-NET-1, guaranteed unroutable.
	resolver := &Resolver{Nameserver: "192.0.2.1:53", Timeout: 200 * time.Millisecond}

	start := time.Now()
	_, ok := resolver.LookupA(context.Background(), "example.com")
	if ok {
		t.Error("expected lookup against unreachable nameserver to fail soft")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout not honoured, lookup took %v", elapsed)
	}
}
