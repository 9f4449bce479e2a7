package cmd

import (
	"bytes"
	"context"
	"time"

	. "github.com/0xERR0R/zonegen/helpertest"
	"github.com/0xERR0R/zonegen/store"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
)

const (
	keyBase = "Ktest2.example.com.+008+52396"

	keyPub = `test2.example.com. IN DNSKEY 256 3 8 ( AwEAAcivnbSxgMkTvzCTA/Py2qqo3EANPUwqL4HalAfNmuDGuFaOu+xT
                                       KlXjiLyfUMKcuy+jKPamGn//z+B5Zsy4j6a1KAaT5u9fli8BH5C1r2Pg
                                       qXKvT6YTwk2M5djuLXdeoe9d5rFzcd7tu01ifFsrh3s7pARkOpjV26Fq
                                       NkxPTiKLidsdAjviHRI5SGAyEx6ouKN1b54HO0uZXPB2xewzjNtWNL37
                                       PW0l/lAeCba78CUu4X4510J2J/BzQ3e7ST6UOQE3gU7pvsM4agZIoiC/
                                       UQ+DFODNrdtfU8UAceMl7L6AZgCN8x7H6KOr3phuAzbg3/u+eNyxEu7c
                                       9baFjzcc63c= )`
	keyPriv = `Private-key-format: v1.3
Algorithm: 8 (RSASHA256)
Created: 20220619004301
Publish: 20220619004301
Activate: 20220619004301`
)

var _ = Describe("Import key command", func() {
	var (
		tmpDir  *TmpFolder
		cfgPath string
		out     bytes.Buffer
	)

	BeforeEach(func() {
		tmpDir = NewTmpFolder("importkey")
		Expect(tmpDir.Error).Should(Succeed())
		DeferCleanup(tmpDir.Clean)

		Expect(tmpDir.CreateStringFile(keyBase+".key", keyPub).Error).Should(Succeed())
		Expect(tmpDir.CreateStringFile(keyBase+".private", keyPriv).Error).Should(Succeed())

		cfgPath = writeConfig(tmpDir)
		out.Reset()
	})

	run := func(args ...string) error {
		c := NewRootCommand()
		c.SetOut(&out)
		c.SetArgs(append([]string{"import-key", "--config", cfgPath}, args...))

		return c.Execute()
	}

	It("should store the key", func() {
		Expect(run("--ttl", "2H", tmpDir.JoinPath(keyBase+".key"))).Should(Succeed())
		Expect(out.String()).Should(Equal("test2.example.com: ZSK 52396\n"))

		ctx := context.Background()

		st, err := store.OpenDialector(ctx, sqlite.Open(tmpDir.JoinPath("zones.db")), 1, time.Millisecond)
		Expect(err).Should(Succeed())
		DeferCleanup(st.Close)

		keys, err := store.Records[store.DNSSEC](ctx, st, "test2.example.com")
		Expect(err).Should(Succeed())
		Expect(keys).Should(HaveLen(1))
		Expect(keys[0].TTL).Should(Equal(2 * time.Hour))
	})

	It("should refuse a key twice", func() {
		Expect(run(tmpDir.JoinPath(keyBase + ".key"))).Should(Succeed())
		Expect(run(tmpDir.JoinPath(keyBase + ".private"))).Should(MatchError(store.ErrDuplicateKey))
	})

	It("should refuse a key of another domain", func() {
		Expect(run("--domain", "example.com", tmpDir.JoinPath(keyBase+".key"))).ShouldNot(Succeed())
	})

	It("should refuse a bad ttl", func() {
		Expect(run("--ttl", "1Y", tmpDir.JoinPath(keyBase+".key"))).ShouldNot(Succeed())
	})

	It("should require a file", func() {
		Expect(run()).ShouldNot(Succeed())
	})
})
