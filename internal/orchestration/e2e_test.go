//go:build !windows

package orchestration_test

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dsforge/dsinstall/internal/config"
	"github.com/dsforge/dsinstall/internal/fsutil"
	"github.com/dsforge/dsinstall/internal/orchestration"
	"github.com/dsforge/dsinstall/internal/paths"
	dstest "github.com/dsforge/dsinstall/internal/testing"
)

var _ = Describe("Instance provisioning", func() {
	var (
		server  *fakeServer
		cfg     *config.InstanceConfig
		fixture *dstest.InstanceFixture
		creator *orchestration.Creator
		port    int
	)

	BeforeEach(func() {
		server = newFakeServer()
		port = freePort()
		cfg = dstest.NewConfigBuilder().WithPort(port).With(func(c *config.InstanceConfig) {
			c.BindAddress = "127.0.0.1"
		}).Build()
		fixture = dstest.NewInstanceFixture(GinkgoT(), cfg).WithTemplates(GinkgoT())
		creator = orchestration.NewCreator(server,
			orchestration.WithObserver(fixture.Observer),
			orchestration.WithDirectory(server.directory),
			orchestration.WithTimeouts(&config.Timeouts{
				StartAttempts: 3,
				StartDelay:    time.Millisecond,
				StartMaxDelay: 5 * time.Millisecond,
				LDAPProbe:     time.Second,
				ScriptRun:     5 * time.Second,
			}),
		)
	})

	Context("with a minimal valid configuration", func() {
		var (
			result *orchestration.Result
			l      *paths.Layout
		)

		BeforeEach(func() {
			var err error
			result, err = creator.Create(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			l = result.Layout
		})

		It("reports success", func() {
			Expect(result.Message).To(Equal("Created new Directory Server"))
			Expect(result.State.Notices).To(ContainElement("Your new directory server has been started."))
			Expect(server.starts.Load()).To(BeEquivalentTo(1))
		})

		It("creates every directory with its mode", func() {
			modes := map[string]os.FileMode{
				l.Instance: fsutil.DirMode,
				l.Config:   fsutil.DirMode,
				l.Schema:   fsutil.DirMode,
				l.Log:      fsutil.SecureDirMode,
				l.Lock:     fsutil.SecureDirMode,
				l.Run:      fsutil.SecureDirMode,
				l.Tmp:      fsutil.SecureDirMode,
				l.DB:       fsutil.DirMode,
				l.Bak:      fsutil.DirMode,
				l.LDIF:     fsutil.DirMode,
			}
			for dir, mode := range modes {
				info, err := os.Stat(dir)
				Expect(err).NotTo(HaveOccurred(), dir)
				Expect(info.IsDir()).To(BeTrue(), dir)
				Expect(info.Mode().Perm()).To(Equal(mode), dir)
			}
			Expect(l.Cert).To(BeADirectory())
		})

		It("writes the global configuration", func() {
			dse, err := os.ReadFile(filepath.Join(l.Config, "dse.ldif"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(dse)).To(HavePrefix("dn: cn=config\n"))
			Expect(string(dse)).To(ContainSubstring("dn: cn=userRoot,cn=ldbm database,cn=plugins,cn=config\n"))
			Expect(string(dse)).To(ContainSubstring(fmt.Sprintf("nsslapd-port: %d\n", port)))
		})

		It("writes a restart script with the exit status contract", func() {
			body, err := os.ReadFile(filepath.Join(l.Instance, "restart-slapd"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("exit 3;"))
			Expect(string(body)).To(ContainSubstring("exit 2;"))
			Expect(string(body)).To(ContainSubstring(filepath.Join(l.Instance, "stop-slapd")))
		})

		It("writes ldap.conf", func() {
			info, err := os.ReadFile(filepath.Join(l.SharedConfig, "ldap.conf"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(info)).To(Equal(fmt.Sprintf("url\tldap://ldap.example.com:%d/dc=example,dc=com\n", port)))
		})

		It("is safe to run again", func() {
			again, err := creator.Create(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Succeeded()).To(BeTrue())
			Expect(filepath.Join(l.Config, "dse.ldif.bak")).To(BeARegularFile())
			Expect(filepath.Join(l.Instance, "start-slapd.bak")).To(BeARegularFile())
		})

		It("regenerates scripts on update", func() {
			Expect(os.Remove(filepath.Join(l.Instance, "stop-slapd"))).To(Succeed())
			updated, err := creator.Update(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Message).To(Equal("Updated Directory Server"))
			Expect(filepath.Join(l.Instance, "stop-slapd")).To(BeARegularFile())
		})
	})

	Context("when the port is taken", func() {
		It("fails validation before writing anything", func() {
			ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(ln.Close)

			result, err := creator.Create(context.Background(), cfg)
			Expect(err).To(HaveOccurred())
			Expect(result.Message).To(Equal(fmt.Sprintf(
				"servport.error:could not create server test1 - Port %d is already in use", port)))
			Expect(result.Layout.Instance).NotTo(BeADirectory())
		})
	})

	Context("when a template is missing", func() {
		It("completes after the template is restored", func() {
			Expect(os.Remove(filepath.Join(fixture.Layout.ConfigTemplates, "certmap.conf"))).To(Succeed())

			first, err := creator.Create(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.State.Advisories).To(ContainElement(HavePrefix("Notice: ")))

			Expect(os.WriteFile(filepath.Join(fixture.Layout.ConfigTemplates, "certmap.conf"), []byte("certmap default default\n"), 0o644)).To(Succeed())
			second, err := creator.Create(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.State.Advisories).To(BeEmpty())
			Expect(filepath.Join(second.Layout.Config, "certmap.conf")).To(BeARegularFile())
		})
	})

	Context("with management integration", func() {
		It("adds the management entries once the server runs", func() {
			cfg.RegisterManagement = true
			cfg.NetscapeRoot = "o=NetscapeRoot"
			cfg.AdminUID = "admin"
			cfg.AdminPW = "adminpw1"

			result, err := creator.Create(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.State.Integration.Added).To(Equal(5))
		})
	})
})
