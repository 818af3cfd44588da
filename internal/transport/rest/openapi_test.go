package rest_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).ToNot(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents every mounted surface", func() {
		for _, path := range []string{
			"/auth/login",
			"/users",
			"/employees",
			"/employees/{id}/leave-balances",
			"/departments/{id}/succession",
			"/leave-requests/{id}/approve",
			"/expense-requests/{id}/manager-approve",
			"/expense-requests/{id}/hr-approve",
			"/promotions/{id}/approve",
			"/documents/receipts",
			"/notifications",
			"/chat/channels",
		} {
			Expect(doc.Paths.Find(path)).ToNot(BeNil(), "missing path %s", path)
		}
	})

	It("pins the closed role set", func() {
		role := doc.Components.Schemas["Role"]
		Expect(role).ToNot(BeNil())
		Expect(role.Value.Enum).To(ConsistOf("admin_hr", "hr", "manager", "employee"))
	})
})
