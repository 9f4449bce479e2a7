package rr_test

import (
	"net"
	"strings"
	"time"

	"github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/helpertest"
	. "github.com/0xERR0R/zonegen/rr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func rendered(rec Record) []string {
	text, err := Render(rec)
	Expect(err).Should(Succeed())
	Expect(text).Should(HaveSuffix("\n"))

	return helpertest.CompactLines(strings.TrimSuffix(text, "\n"))
}

func base(hostname string, ttl time.Duration) Base {
	return Base{Domain: "dom.com", Hostname: hostname, TTL: ttl}
}

var _ = Describe("Records", func() {
	Describe("MX", func() {
		It("renders local targets", func() {
			Expect(rendered(&MX{Base: base("mail", time.Hour), Priority: 10, MX: "mx1"})).
				Should(Equal([]string{"mail 1H IN MX 10 mx1"}))
		})

		It("adds a dot to qualified targets", func() {
			Expect(rendered(&MX{Base: base("mail", 0), Priority: 10, MX: "mx1.google.com"})).
				Should(Equal([]string{"mail IN MX 10 mx1.google.com."}))
		})
	})

	Describe("NS", func() {
		It("renders", func() {
			Expect(rendered(&NS{Base: base("sub", time.Hour), NS: "srv1"})).
				Should(Equal([]string{"sub 1H IN NS srv1"}))
			Expect(rendered(&NS{Base: base("sub", 0), NS: "ns1.google.com"})).
				Should(Equal([]string{"sub IN NS ns1.google.com."}))
		})

		It("keeps an existing dot", func() {
			Expect(rendered(&NS{Base: base("", 0), NS: "ns1.google.com."})).
				Should(Equal([]string{"IN NS ns1.google.com."}))
		})
	})

	Describe("Host", func() {
		It("renders A and AAAA", func() {
			v4 := &Host{Base: base("srv1", time.Hour), IP: net.ParseIP("10.1.1.2")}
			Expect(v4.Type()).Should(Equal("A"))
			Expect(rendered(v4)).Should(Equal([]string{"srv1 1H IN A 10.1.1.2"}))

			v6 := &Host{Base: base("srv1", 0), IP: net.ParseIP("2001:db8::1")}
			Expect(v6.Type()).Should(Equal("AAAA"))
			Expect(rendered(v6)).Should(Equal([]string{"srv1 IN AAAA 2001:db8::1"}))
		})

		It("sorts IPv4 before IPv6, numerically", func() {
			hosts := []*Host{
				{Base: base("c", 0), IP: net.ParseIP("2001:db8::1")},
				{Base: base("b", 0), IP: net.ParseIP("10.1.1.10")},
				{Base: base("a", 0), IP: net.ParseIP("10.1.1.9")},
			}

			Sort(hosts)

			Expect(hosts[0].Hostname).Should(Equal("a"))
			Expect(hosts[1].Hostname).Should(Equal("b"))
			Expect(hosts[2].Hostname).Should(Equal("c"))
		})

		It("sorts IPv6 addresses in ::/96 among the IPv4 addresses", func() {
			hosts := []*Host{
				{Base: base("v6", 0), IP: net.ParseIP("2001:db8::1")},
				{Base: base("v4", 0), IP: net.ParseIP("0.0.0.2")},
				{Base: base("loopback", 0), IP: net.ParseIP("::1")},
				{Base: base("compat", 0), IP: net.ParseIP("::3")},
			}

			Sort(hosts)

			names := make([]string, 0, len(hosts))
			for _, h := range hosts {
				names = append(names, h.Hostname)
			}

			Expect(names).Should(Equal([]string{"loopback", "v4", "compat", "v6"}))
		})

		It("requires an address", func() {
			_, err := Render(&Host{Base: base("srv1", 0)})
			Expect(err).Should(BeAssignableToTypeOf(&BadRecordError{}))
			Expect(err.Error()).Should(ContainSubstring("IP"))
		})
	})

	Describe("PTR", func() {
		var host *Host

		BeforeEach(func() {
			host = &Host{Base: base("srv1", time.Hour), IP: net.ParseIP("10.1.1.2"), Reverse: true}
		})

		It("renders relative to the reverse zone", func() {
			Expect(rendered(NewPTR(host, "1.10.in-addr.arpa"))).
				Should(Equal([]string{"2.1 1H IN PTR srv1.dom.com."}))
		})

		It("points to the domain for apex hosts", func() {
			host.Hostname = ""
			Expect(rendered(NewPTR(host, "1.1.10.in-addr.arpa"))).
				Should(Equal([]string{"2 1H IN PTR dom.com."}))
		})

		It("refuses hosts that are not reverse", func() {
			host.Reverse = false

			_, err := Render(NewPTR(host, "1.10.in-addr.arpa"))
			Expect(err).Should(MatchError(ContainSubstring("non-reverse")))
		})

		It("refuses addresses outside the reverse zone", func() {
			_, err := Render(NewPTR(host, "2.10.in-addr.arpa"))
			Expect(err).Should(BeAssignableToTypeOf(&BadRecordError{}))
		})

		It("sorts by version and address", func() {
			ptrs := []*PTR{
				NewPTR(&Host{Base: base("c", 0), IP: net.ParseIP("::1"), Reverse: true}, "ip6.arpa"),
				NewPTR(&Host{Base: base("b", 0), IP: net.ParseIP("10.1.1.10"), Reverse: true}, "in-addr.arpa"),
				NewPTR(&Host{Base: base("a", 0), IP: net.ParseIP("10.1.1.9"), Reverse: true}, "in-addr.arpa"),
			}

			Expect(Sorted(ptrs)[0].Hostname).Should(Equal("a"))
			Expect(Sorted(ptrs)[2].Hostname).Should(Equal("c"))
		})
	})

	Describe("CNAME", func() {
		It("adds a dot to qualified targets", func() {
			Expect(rendered(&CNAME{Base: base("ns1", time.Hour), Target: "srv1"})).
				Should(Equal([]string{"ns1 1H IN CNAME srv1"}))
			Expect(rendered(&CNAME{Base: base("ns1", time.Hour), Target: "some.host.com"})).
				Should(Equal([]string{"ns1 1H IN CNAME some.host.com."}))
			Expect(rendered(&CNAME{Base: base("ns1", time.Hour), Target: "srv1.sub"})).
				Should(Equal([]string{"ns1 1H IN CNAME srv1.sub"}))
		})

		It("is associated with its target", func() {
			c := &CNAME{Base: base("www", 0), Target: "srv1"}
			Expect(c.AssociatedHostname()).Should(Equal("srv1"))
			Expect(c.CookedHostname()).Should(Equal("www"))
		})

		It("sorts DKIM aliases last", func() {
			Expect((&CNAME{Base: base("s1._domainkey", 0), Target: "x"}).SortKey()).
				Should(Equal("zzzz_s1._domainkey"))
		})
	})

	Describe("TXT", func() {
		It("quotes the data", func() {
			Expect(rendered(&TXT{Base: base("ns1", time.Hour), TXT: "ho ho ho"})).
				Should(Equal([]string{`ns1 1H IN TXT "ho ho ho"`}))
		})

		It("splits long payloads in 255 byte strings", func() {
			payload := strings.Repeat("a", 255) + strings.Repeat("b", 45)

			lines := rendered(&TXT{Base: base("long", 0), TXT: payload})
			Expect(lines).Should(Equal([]string{
				`long IN TXT ( "` + strings.Repeat("a", 255) + `"`,
				`"` + strings.Repeat("b", 45) + `" )`,
			}))
		})

		It("keeps a 255 byte payload in one string", func() {
			payload := strings.Repeat("a", 255)

			Expect(rendered(&TXT{Base: base("edge", 0), TXT: payload})).
				Should(Equal([]string{`edge IN TXT "` + payload + `"`}))
		})

		It("groups SPF records with their host", func() {
			t := &TXT{Base: base("_spf.mail", 0), TXT: "v=spf1 -all"}
			Expect(t.AssociatedHostname()).Should(Equal("mail"))
			Expect(t.SortKey()).Should(Equal("mail_zzzz"))
			Expect(t.CookedHostname()).Should(Equal("_spf.mail"))
		})
	})

	Describe("SSHFP", func() {
		It("renders", func() {
			Expect(rendered(&SSHFP{Base: base("srv1", 0), KeyType: 4, HashType: 2, Fingerprint: "abcd"})).
				Should(Equal([]string{"srv1 IN SSHFP 4 2 abcd"}))
		})
	})

	Describe("DNSSEC", func() {
		var key *DNSSEC

		BeforeEach(func() {
			key = NewDNSSEC("dom.com", &dnssec.Key{
				Zone:         "dom.com",
				KeyID:        10,
				Algorithm:    8,
				DigestSHA1:   "digest_sha1",
				DigestSHA256: "digest_sha256",
				KeyPub:       "AwEpubkey",
			})
		})

		It("renders DNSKEY with a comment", func() {
			Expect(rendered(NewDNSKEY(key))).
				Should(Equal([]string{"IN DNSKEY 256 3 8 AwEpubkey ; ZSK ; alg = RSASHA256 ; key id = 10"}))
		})

		It("is a record of its own zone", func() {
			var rec Record = key

			Expect(rec.Type()).Should(Equal("DNSKEY"))
			Expect(rendered(rec)).Should(Equal(rendered(NewDNSKEY(key))))
		})

		It("wraps long keys", func() {
			key.KSK = true
			key.KeyPub = "AAAA BBBB"

			Expect(rendered(NewDNSKEY(key))).
				Should(Equal([]string{"IN DNSKEY 257 3 8 (", "AAAA", "BBBB", ") ; KSK ; alg = RSASHA256 ; key id = 10"}))
		})

		It("renders both DS digests", func() {
			key.Hostname = "sub"

			Expect(rendered(NewDS(key))).Should(Equal([]string{
				"sub IN DS 10 8 1 digest_sha1",
				"sub IN DS 10 8 2 digest_sha256",
			}))
		})

		It("skips missing digests", func() {
			key.Hostname = "sub"
			key.DigestSHA1 = ""

			Expect(rendered(NewDS(key))).Should(Equal([]string{"sub IN DS 10 8 2 digest_sha256"}))

			key.DigestSHA256 = ""
			_, err := Render(NewDS(key))
			Expect(err).Should(BeAssignableToTypeOf(&BadRecordError{}))
		})

		It("refuses unknown algorithms", func() {
			key.Algorithm = 200

			_, err := Render(NewDNSKEY(key))
			Expect(err).Should(HaveOccurred())
		})
	})

	Describe("DKIM", func() {
		var dkim *DKIM

		BeforeEach(func() {
			dkim = &DKIM{Base: base("", 0), Selector: "google", K: "rsa", G: "*", KeyPub: "pubkey"}
		})

		It("renders as TXT", func() {
			Expect(rendered(dkim)).
				Should(Equal([]string{`google._domainkey IN TXT "v=DKIM1; g=*; k=rsa; s=email; t=s; p=pubkey"`}))
		})

		DescribeTable("encodes the t flag",
			func(t, subdomains bool, expected string) {
				dkim.T = t
				dkim.Subdomains = subdomains
				dkim.G = ""

				Expect(rendered(dkim)[0]).Should(ContainSubstring(expected))
			},
			Entry("testing with subdomains", true, true, "s=email; t=y; p="),
			Entry("testing without subdomains", true, false, "s=email; t=s:y; p="),
			Entry("no subdomains", false, false, "s=email; t=s; p="),
			Entry("subdomains", false, true, "s=email; p="),
		)

		It("owns the selector name below the hostname", func() {
			dkim.Hostname = "mail"
			Expect(dkim.CookedHostname()).Should(Equal("google._domainkey.mail"))
			Expect(dkim.AssociatedHostname()).Should(Equal("mail"))
		})

		It("chunks long keys", func() {
			dkim.KeyPub = strings.Repeat("k", 300)

			lines := rendered(dkim)
			Expect(lines).Should(HaveLen(2))
			Expect(lines[0]).Should(HavePrefix(`google._domainkey IN TXT ( "v=DKIM1;`))
			Expect(lines[1]).Should(HaveSuffix(`" )`))
		})

		It("requires a key", func() {
			dkim.KeyPub = ""

			_, err := Render(dkim)
			Expect(err).Should(MatchError(ContainSubstring("KeyPub")))
		})
	})

	Describe("SRV", func() {
		It("owns the service name", func() {
			srv := &SRV{Base: base("", 0), Service: "xmpp-client", Protocol: "tcp", Priority: 5, Port: 5222,
				Target: "targethost"}
			Expect(rendered(srv)).Should(Equal([]string{"_xmpp-client._tcp IN SRV 5 0 5222 targethost"}))

			srv.Name = "chat"
			srv.Target = "xmpp.example.com"
			Expect(rendered(srv)).Should(Equal([]string{"_xmpp-client._tcp.chat IN SRV 5 0 5222 xmpp.example.com."}))
		})

		It("refuses unknown protocols", func() {
			_, err := Render(&SRV{Base: base("", 0), Service: "x", Protocol: "icmp", Target: "t"})
			Expect(err).Should(MatchError(ContainSubstring("Protocol")))
		})
	})

	Describe("RenderOwner", func() {
		It("replaces the owner", func() {
			text, err := RenderOwner(&Host{Base: base("srv1", 0), IP: net.ParseIP("10.1.1.2")}, "")
			Expect(err).Should(Succeed())
			Expect(text).Should(HavePrefix("\t\t\t\tIN\tA\t10.1.1.2"))
		})
	})

	Describe("SOA", func() {
		It("renders the header of the zone", func() {
			soa := NewSOA("dom.com")
			soa.Serial = 2022050801
			soa.NS0 = "ns1.dom.com"
			soa.Contact = "v13@v13.gr"
			soa.Expire = 30 * 24 * time.Hour

			text, err := soa.Render()
			Expect(err).Should(Succeed())
			Expect(text).Should(HaveSuffix(")\n\n"))
			Expect(text).Should(helpertest.HaveZoneLines(
				"$ORIGIN dom.com.",
				"$TTL 1D ; 1 day",
				"@ 1D IN SOA ns1.dom.com. v13@v13.gr. (",
				"2022050801 ; serial",
				"1D ; refresh (1 day)",
				"1H ; retry (1 hour)",
				"30D ; expire (4 weeks, 2 days)",
				"1M ; minimum (1 minute)",
				")",
			))
		})

		It("has defaults", func() {
			soa := NewSOA("dom.com")
			Expect(soa.TTL).Should(Equal(24 * time.Hour))
			Expect(soa.Expire).Should(Equal(90 * 24 * time.Hour))
			Expect(soa.Serial).Should(Equal(uint32(1)))
		})

		It("requires the name server", func() {
			soa := NewSOA("dom.com")
			soa.Contact = "a@b"

			_, err := soa.Render()
			Expect(err).Should(HaveOccurred())
		})
	})
})
