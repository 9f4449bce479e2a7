package util_test

import (
	"os"

	. "github.com/0xERR0R/zonegen/helpertest"
	. "github.com/0xERR0R/zonegen/util"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WriteFile", func() {
	var tmpDir *TmpFolder

	BeforeEach(func() {
		tmpDir = NewTmpFolder("util")
		Expect(tmpDir.Error).Should(Succeed())
		DeferCleanup(tmpDir.Clean)
	})

	It("writes private files with mode 0600", func() {
		path := tmpDir.JoinPath("Kexample.com.+008+12345.private")

		Expect(WriteFile(path, "secret", PrivateFileMode)).Should(Succeed())
		Expect(path).Should(HaveMode(PrivateFileMode))
		Expect(os.ReadFile(path)).Should(BeEquivalentTo("secret"))
		Expect(FileExists(path)).Should(BeTrue())
	})

	It("truncates existing files", func() {
		path := tmpDir.JoinPath("zone")

		Expect(WriteFile(path, "a long first version", PublicFileMode)).Should(Succeed())
		Expect(WriteFile(path, "short", PublicFileMode)).Should(Succeed())
		Expect(os.ReadFile(path)).Should(BeEquivalentTo("short"))
	})

	It("fails for missing directories", func() {
		Expect(WriteFile(tmpDir.JoinPath("missing/zone"), "x", PublicFileMode)).ShouldNot(Succeed())
		Expect(FileExists(tmpDir.JoinPath("missing"))).Should(BeFalse())
	})
})
