package source_test

import (
	"context"
	"time"

	"github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/helpertest"
	. "github.com/0xERR0R/zonegen/source"
	"github.com/0xERR0R/zonegen/store"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
)

func openStore(ctx context.Context) (*store.Store, *helpertest.TmpFolder) {
	tmpDir := helpertest.NewTmpFolder("source")
	Expect(tmpDir.Error).Should(Succeed())
	DeferCleanup(tmpDir.Clean)

	st, err := store.OpenDialector(ctx, sqlite.Open(tmpDir.JoinPath("zones.db")), 1, time.Millisecond)
	Expect(err).Should(Succeed())
	DeferCleanup(st.Close)

	return st, tmpDir
}

var _ = Describe("DB", func() {
	var (
		ctx context.Context
		st  *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		st, _ = openStore(ctx)

		Expect(st.Save(ctx,
			&store.Domain{Name: "example.com", Contact: "hostmaster.example.com", NS0: "ns1.example.com",
				Serial: 2021010100, TTL: time.Hour},
			&store.Domain{Name: "sub.example.com"},
			&store.Domain{Name: "1.10.in-addr.arpa", Reverse: true},
			&store.Domain{Name: "2.10.in-addr.arpa", Reverse: true},
			&store.Network{Domain: "1.10.in-addr.arpa", Network: "10.1.0.0/16"},
			&store.Host{IP: "10.1.1.2", Domain: "example.com", Hostname: "www", Reverse: true},
			&store.Host{IP: "2001:db8::2", Domain: "example.com", Hostname: "www"},
			&store.Host{IP: "10.3.0.1", Domain: "example.com", Hostname: "far", Reverse: true},
			&store.CName{Domain: "example.com", Hostname: "ftp", Hostname0: "www"},
			&store.NS{Domain: "example.com", NS: "ns1.example.com."},
			&store.MX{Domain: "example.com", Priority: 10, MX: "mail"},
			store.NewDNSSEC("example.com", &dnssec.Key{Zone: "example.com", KeyID: 1234, KSK: true, Algorithm: 8},
				time.Hour),
		)).Should(Succeed())
	})

	It("reads a forward domain", func() {
		data, err := NewDB(st, "example.com").GetData(ctx)
		Expect(err).Should(Succeed())

		Expect(data.Name).Should(Equal("example.com"))
		Expect(data.IsReverse()).Should(BeFalse())
		Expect(data.Serial).Should(Equal(uint32(2021010100)))
		Expect(data.SOA.TTL).Should(Equal(time.Hour))
		Expect(data.Hosts).Should(HaveLen(3))
		Expect(data.CNAMEs).Should(HaveLen(1))
		Expect(data.CNAMEs[0].Target).Should(Equal("www"))
		Expect(data.NS).Should(HaveLen(1))
		Expect(data.MX).Should(HaveLen(1))
		Expect(data.DNSSEC).Should(HaveLen(1))
		Expect(data.DNSSEC[0].KSK).Should(BeTrue())
		Expect(data.Subdomains).Should(Equal([]string{"sub.example.com"}))
	})

	It("reads the hosts of a network for a reverse domain", func() {
		data, err := NewDB(st, "1.10.in-addr.arpa").GetData(ctx)
		Expect(err).Should(Succeed())

		Expect(data.IsReverse()).Should(BeTrue())
		Expect(data.Name).Should(Equal("1.10.in-addr.arpa"))
		Expect(data.Hosts).Should(HaveLen(1))
		Expect(data.Hosts[0].Hostname).Should(Equal("www"))
		Expect(data.Hosts[0].Domain).Should(Equal("example.com"))
	})

	It("requires a network for reverse domains", func() {
		_, err := NewDB(st, "2.10.in-addr.arpa").GetData(ctx)
		Expect(err).Should(MatchError(store.ErrNoNetwork))
	})

	It("has no data for unknown domains", func() {
		Expect(NewDB(st, "unknown.com").GetData(ctx)).Should(BeNil())
	})

	It("tracks changes through the stored serial", func() {
		sut := NewDB(st, "example.com")

		Expect(sut.HasChanged(ctx)).Should(BeTrue())
		Expect(sut.SetSerial(ctx, 2021010101)).Should(Succeed())
		Expect(sut.HasChanged(ctx)).Should(BeFalse())

		data, err := sut.GetData(ctx)
		Expect(err).Should(Succeed())
		Expect(data.SOA.Serial).Should(Equal(uint32(2021010101)))
	})

	It("uses date serials", func() {
		Expect(NewDB(st, "example.com").IncSerial(ctx, 7)).Should(Equal(uint32(8)))
	})
})
