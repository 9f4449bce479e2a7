package source_test

import (
	"context"

	"github.com/0xERR0R/zonegen/helpertest"
	. "github.com/0xERR0R/zonegen/source"
	"github.com/0xERR0R/zonegen/store"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const oldZone = `$ORIGIN example.com.
$TTL 1D
@       IN  SOA  ns1.example.com. hostmaster.example.com. ( 2021010105 1D 1H 90D 1M )
        IN  NS   ns1.example.com.
laptop  IN  A    10.0.0.50
laptop  IN  AAAA 2001:db8::50
www     IN  A    10.0.0.2
`

var _ = Describe("Dynamic", func() {
	var (
		ctx    context.Context
		st     *store.Store
		tmpDir *helpertest.TmpFolder
		oldDir *helpertest.TmpFolder
	)

	BeforeEach(func() {
		ctx = context.Background()
		st, tmpDir = openStore(ctx)

		oldDir = tmpDir.CreateSubFolder("old")
		Expect(oldDir.Error).Should(Succeed())

		Expect(st.Save(ctx,
			&store.Domain{Name: "example.com", Serial: 2021010100},
			&store.Domain{Name: "static.com"},
			&store.Dynamic{Domain: "example.com", Hostname: "laptop"},
		)).Should(Succeed())
	})

	It("takes the dynamic hosts from the old zone file", func() {
		Expect(oldDir.CreateStringFile("example.com", oldZone).Error).Should(Succeed())

		data, err := NewDynamic(st, "example.com", oldDir.Path).GetData(ctx)
		Expect(err).Should(Succeed())

		Expect(data.Hosts).Should(HaveLen(2))
		Expect(data.Hosts[0].Hostname).Should(Equal("laptop"))
		Expect(data.Hosts[1].IP.String()).Should(Equal("2001:db8::50"))
		Expect(data.NS).Should(BeEmpty())
		Expect(data.Serial).Should(Equal(uint32(2021010105)))
	})

	It("returns copies of the cached hosts", func() {
		Expect(oldDir.CreateStringFile("example.com", oldZone).Error).Should(Succeed())

		sut := NewDynamic(st, "example.com", oldDir.Path)

		first, err := sut.GetData(ctx)
		Expect(err).Should(Succeed())
		first.Hosts[0].TTL = 42

		second, err := sut.GetData(ctx)
		Expect(err).Should(Succeed())
		Expect(second.Hosts[0].TTL).Should(BeZero())
	})

	It("requires the old zone file", func() {
		_, err := NewDynamic(st, "example.com", oldDir.Path).GetData(ctx)
		Expect(err).Should(MatchError(ErrNoZoneFile))
	})

	It("has nothing to add for domains without dynamic hosts", func() {
		Expect(NewDynamic(st, "static.com", oldDir.Path).GetData(ctx)).Should(BeNil())
	})

	It("never triggers or stores serials", func() {
		sut := NewDynamic(st, "example.com", oldDir.Path)

		Expect(sut.HasChanged(ctx)).Should(BeFalse())
		Expect(sut.IncSerial(ctx, 5)).Should(Equal(uint32(6)))
		Expect(sut.SetSerial(ctx, 6)).Should(Succeed())
	})
})
