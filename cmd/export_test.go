package cmd

import (
	"context"
	"os"
	"time"

	. "github.com/0xERR0R/zonegen/helpertest"
	"github.com/0xERR0R/zonegen/store"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
)

var _ = Describe("Export command", func() {
	var (
		tmpDir  *TmpFolder
		cfgPath string
	)

	BeforeEach(func() {
		ctx := context.Background()

		tmpDir = NewTmpFolder("export")
		Expect(tmpDir.Error).Should(Succeed())
		DeferCleanup(tmpDir.Clean)

		st, err := store.OpenDialector(ctx, sqlite.Open(tmpDir.JoinPath("zones.db")), 1, time.Millisecond)
		Expect(err).Should(Succeed())

		Expect(st.Save(ctx,
			&store.Domain{Name: "example.com", Contact: "hostmaster.example.com", NS0: "ns1.example.com"},
			&store.Domain{Name: "0.10.in-addr.arpa", Reverse: true, Contact: "hostmaster.example.com",
				NS0: "ns1.example.com"},
			&store.Network{Domain: "0.10.in-addr.arpa", Network: "10.0.0.0/16"},
			&store.NS{Domain: "example.com", NS: "ns1.example.com."},
			&store.NS{Domain: "0.10.in-addr.arpa", NS: "ns1.example.com."},
			&store.Host{IP: "10.0.0.2", Domain: "example.com", Hostname: "www", Reverse: true},
		)).Should(Succeed())
		Expect(st.Close()).Should(Succeed())

		cfgPath = writeConfig(tmpDir, "metrics:", "  textfile: "+tmpDir.JoinPath("zonegen.prom"))
	})

	run := func(args ...string) error {
		c := NewRootCommand()
		c.SetArgs(append([]string{"export", "--config", cfgPath}, args...))

		return c.Execute()
	}

	It("should require a selection", func() {
		Expect(run()).Should(MatchError(errNoSelection))
	})

	It("should refuse more than one selection", func() {
		Expect(run("--all", "--domains", "example.com")).ShouldNot(Succeed())
	})

	It("should export all zones", func() {
		Expect(run("--all")).Should(Succeed())

		Expect(tmpDir.JoinPath("zones/example.com")).Should(BeARegularFile())
		Expect(tmpDir.JoinPath("zones/0.10.in-addr.arpa")).Should(BeARegularFile())

		zone, err := os.ReadFile(tmpDir.JoinPath("zones/0.10.in-addr.arpa"))
		Expect(err).Should(Succeed())
		Expect(string(zone)).Should(HaveZoneLine("2.0 IN PTR www.example.com."))

		prom, err := os.ReadFile(tmpDir.JoinPath("zonegen.prom"))
		Expect(err).Should(Succeed())
		Expect(string(prom)).Should(ContainSubstring(`zonegen_zones_generated_total{zone="example.com"}`))
	})

	It("should export selected domains to the output directory of the flag", func() {
		Expect(run("--domains", "example.com", "--outdir", tmpDir.JoinPath("other"))).Should(Succeed())

		Expect(tmpDir.JoinPath("other/example.com")).Should(BeARegularFile())
		Expect(tmpDir.JoinPath("other/0.10.in-addr.arpa")).ShouldNot(BeAnExistingFile())
	})

	It("should export selected networks", func() {
		Expect(run("--networks", "10.0.0.0/16")).Should(Succeed())

		Expect(tmpDir.JoinPath("zones/0.10.in-addr.arpa")).Should(BeARegularFile())
		Expect(tmpDir.JoinPath("zones/example.com")).ShouldNot(BeAnExistingFile())
	})

	It("should fail for a bad network", func() {
		Expect(run("--networks", "10.0.0.0/99")).ShouldNot(Succeed())
	})
})
