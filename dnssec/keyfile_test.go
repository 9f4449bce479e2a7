package dnssec_test

import (
	"context"
	"strings"
	"time"

	. "github.com/0xERR0R/zonegen/dnssec"
	"github.com/0xERR0R/zonegen/helpertest"
	"github.com/0xERR0R/zonegen/parsers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Key files", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("ParseTimestamp", func() {
		It("parses UTC timestamps", func() {
			Expect(ParseTimestamp("20220619004301")).
				Should(Equal(time.Date(2022, 6, 19, 0, 43, 1, 0, time.UTC)))
		})

		DescribeTable("refuses bad values",
			func(st string) {
				_, err := ParseTimestamp(st)
				Expect(err).Should(MatchError(ErrBadTimestamp))
			},
			Entry("too short", "202206190043"),
			Entry("too long", "2022061900430100"),
			Entry("not a number", "abcd"),
			Entry("invalid month", "20223001000000"),
		)
	})

	Describe("ParsePubKeyLine", func() {
		It("computes the derived values", func() {
			key, err := ParsePubKeyLine(parsers.ParsedLine{
				Owner: "test2.example.com.",
				Type:  "DNSKEY",
				RData: "257 3 8 " + kskKey,
			})
			Expect(err).Should(Succeed())
			Expect(*key).Should(Equal(PubKey{
				Zone:         "test2.example.com",
				Flags:        257,
				Protocol:     3,
				Algorithm:    8,
				KeyPub:       kskKey,
				KeyID:        27869,
				KSK:          true,
				DigestSHA1:   kskSHA1,
				DigestSHA256: kskSHA256,
			}))
		})

		It("requires an owner", func() {
			_, err := ParsePubKeyLine(parsers.ParsedLine{Type: "DNSKEY", RData: "257 3 8 " + kskKey})
			Expect(err).Should(MatchError(ErrMissingOwner))
		})

		It("refuses other protocols", func() {
			_, err := ParsePubKeyLine(parsers.ParsedLine{Owner: "a.com.", Type: "DNSKEY", RData: "257 4 8 " + kskKey})
			Expect(err).Should(MatchError(ErrBadProtocol))
		})

		It("refuses incomplete data", func() {
			_, err := ParsePubKeyLine(parsers.ParsedLine{Owner: "a.com.", Type: "DNSKEY", RData: "257 3 8"})
			Expect(err).Should(MatchError(ErrBadDNSKEYData))
		})
	})

	Describe("ParseKeyFiles", func() {
		It("parses a multiline zone signing key", func() {
			key, err := ParseKeyFiles(ctx, "test2.example.com", zskPub, zskPriv)
			Expect(err).Should(Succeed())

			ts := time.Date(2022, 6, 19, 0, 43, 1, 0, time.UTC)

			Expect(*key).Should(Equal(Key{
				Zone:         "test2.example.com",
				KeyID:        52396,
				KSK:          false,
				Algorithm:    8,
				DigestSHA1:   zskSHA1,
				DigestSHA256: zskSHA256,
				KeyPub:       zskKey,
				StKeyPub:     zskPub,
				StKeyPriv:    zskPriv,
				TSCreated:    ts,
				TSActivate:   ts,
				TSPublish:    ts,
			}))
		})

		It("parses a single line key signing key", func() {
			key, err := ParseKeyFiles(ctx, "test2.example.com", kskPub(), kskPriv)
			Expect(err).Should(Succeed())
			Expect(key.KeyID).Should(Equal(uint16(27869)))
			Expect(key.KSK).Should(BeTrue())
			Expect(key.DigestSHA256).Should(Equal(kskSHA256))
			Expect(key.TSCreated).Should(Equal(time.Date(2022, 6, 19, 1, 8, 55, 0, time.UTC)))
		})

		It("accepts any owner without a domain", func() {
			key, err := ParseKeyFiles(ctx, "", zskPub, zskPriv)
			Expect(err).Should(Succeed())
			Expect(key.Zone).Should(Equal("test2.example.com"))
		})

		It("returns nothing without a DNSKEY", func() {
			Expect(ParseKeyFiles(ctx, "test2.example.com", "; only a comment\n", zskPriv)).Should(BeNil())
		})

		It("refuses keys of other domains", func() {
			_, err := ParseKeyFiles(ctx, "example.com", zskPub, zskPriv)
			Expect(err).Should(MatchError(ErrDomainMismatch))
		})

		It("refuses a second key", func() {
			_, err := ParseKeyFiles(ctx, "test2.example.com", zskPub+kskPub(), zskPriv)
			Expect(err).Should(MatchError(ErrSecondKey))
		})

		It("refuses other records", func() {
			_, err := ParseKeyFiles(ctx, "test2.example.com", "test2.example.com. IN A 10.1.1.1\n", zskPriv)
			Expect(err).Should(MatchError(ErrUnhandledLine))
		})

		It("requires all timestamps", func() {
			priv := strings.ReplaceAll(zskPriv, "Activate: 20220619004301\n", "")

			_, err := ParseKeyFiles(ctx, "test2.example.com", zskPub, priv)
			Expect(err).Should(MatchError(ErrMissingTimestamp))
			Expect(err.Error()).Should(ContainSubstring("Activate"))
		})
	})

	Describe("ParseKeyFile", func() {
		var tmpDir *helpertest.TmpFolder

		BeforeEach(func() {
			tmpDir = helpertest.NewTmpFolder("keys")
			Expect(tmpDir.Error).Should(Succeed())
			DeferCleanup(tmpDir.Clean)

			Expect(tmpDir.CreateStringFile("Ktest2.example.com.+008+52396.key", zskPub).Error).Should(Succeed())
			Expect(tmpDir.CreateStringFile("Ktest2.example.com.+008+52396.private", zskPriv).Error).Should(Succeed())
		})

		It("reads both files given either of them", func() {
			for _, name := range []string{"Ktest2.example.com.+008+52396.key", "Ktest2.example.com.+008+52396.private"} {
				key, err := ParseKeyFile(ctx, tmpDir.JoinPath(name), "test2.example.com")
				Expect(err).Should(Succeed())
				Expect(key.KeyID).Should(Equal(uint16(52396)))
				Expect(key.Filename()).Should(Equal("Ktest2.example.com.+008+52396"))
			}
		})

		It("refuses other file names", func() {
			_, err := ParseKeyFile(ctx, tmpDir.JoinPath("Ktest2.example.com.+008+52396.txt"), "")
			Expect(err).Should(MatchError(ErrBadFilename))
		})

		It("requires the private file", func() {
			Expect(tmpDir.CreateStringFile("Kother.key", zskPub).Error).Should(Succeed())

			_, err := ParseKeyFile(ctx, tmpDir.JoinPath("Kother.key"), "")
			Expect(err).Should(HaveOccurred())
		})

		It("requires a DNSKEY", func() {
			Expect(tmpDir.CreateStringFile("Kempty.key", "; nothing").Error).Should(Succeed())
			Expect(tmpDir.CreateStringFile("Kempty.private", zskPriv).Error).Should(Succeed())

			_, err := ParseKeyFile(ctx, tmpDir.JoinPath("Kempty.key"), "")
			Expect(err).Should(MatchError(ErrNoKey))
		})
	})
})
