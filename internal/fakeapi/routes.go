package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directory-client/internal/auth"
	"github.com/spec-kit/directory-client/internal/domain"
)

func (s *Server) routes() {
	app := s.App
	app.Use(s.record)

	app.Post("/auth/login", s.login)
	app.Post("/auth/register", s.registerAdvertiser)
	app.Post("/user/register", s.registerConsumer)
	app.Get("/api/beta-status", s.betaStatus)

	app.Get("/advertiser/top10", s.top10)
	app.Get("/advertiser/plans", s.plans)
	app.Get("/advertiser/subscription-status", s.requireRole(domain.RoleAdvertiser), s.subscriptionStatus)
	app.Post("/advertiser/subscribe/:plan", s.requireRole(domain.RoleAdvertiser), s.subscribe)
	app.Get("/advertiser/payment-info/:plan", s.requireRole(domain.RoleAdvertiser), s.paymentInfo)
	app.Post("/advertiser/confirm-payment", s.requireRole(domain.RoleAdvertiser), s.confirmPayment)
	app.Get("/advertiser/", s.search)
	app.Get("/advertiser/:id<int>", s.advertiser)
	app.Get("/advertiser/:id<int>/reviews", s.listReviews)
	app.Post("/advertiser/:id<int>/reviews", s.requireRole(domain.RoleConsumer), s.createReview)

	user := app.Group("/user", s.requireRole(domain.RoleConsumer))
	user.Get("/favorites", s.listFavorites)
	user.Get("/favorites/:id<int>", s.isFavorite)
	user.Post("/favorites/:id<int>", s.addFavorite)
	user.Delete("/favorites/:id<int>", s.removeFavorite)

	admin := app.Group("/admin", s.requireRole(domain.RoleAdmin))
	admin.Get("/stats", s.stats)
	admin.Get("/pricing", s.listPricing)
	admin.Post("/pricing", s.updatePricing)
	admin.Get("/reports", s.listReports)
	admin.Put("/reports/:id<int>/resolve", s.resolveReport)
	admin.Put("/advertisers/:id<int>/toggle_active", s.toggleAdvertiser)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email e senha são obrigatórios")
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	raw := s.issueRaw
	s.mu.Unlock()
	if !ok || !acct.checkPassword(req.Password) {
		return fail(c, http.StatusUnauthorized, "Email ou senha inválidos")
	}
	if raw != "" {
		return c.JSON(fiber.Map{"access_token": raw})
	}

	token, err := auth.IssueCredential(s.Secret, acct.Identity, 0)
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"access_token": token})
}

func (s *Server) registerAdvertiser(c *fiber.Ctx) error {
	var req domain.AdvertiserRegistration
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.CPF == "" {
		return fail(c, http.StatusBadRequest, "Dados obrigatórios faltando")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		return fail(c, http.StatusBadRequest, "Email já cadastrado")
	}
	id := int64(len(s.advertisers) + 1)
	s.accounts[req.Email] = newAccount(req.Password, domain.Identity{ID: domain.UserID(fmt.Sprint(id)), Role: domain.RoleAdvertiser})
	s.advertisers = append(s.advertisers, domain.Advertiser{
		AdvertiserSummary: domain.AdvertiserSummary{ID: id, BusinessName: req.BusinessName, Description: req.Description},
		IsActive:          true,
	})
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Cadastro realizado com sucesso!"})
}

func (s *Server) registerConsumer(c *fiber.Ctx) error {
	var req domain.ConsumerRegistration
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return fail(c, http.StatusBadRequest, "Email, senha e nome são obrigatórios")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		return fail(c, http.StatusConflict, "Email já cadastrado.")
	}
	id := domain.UserID(fmt.Sprint(100 + len(s.accounts)))
	s.accounts[req.Email] = newAccount(req.Password, domain.Identity{ID: id, Role: domain.RoleConsumer})
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Usuário consumidor cadastrado com sucesso!"})
}

func (s *Server) betaStatus(c *fiber.Ctx) error {
	notice := "Em breve migraremos para planos pagos."
	return c.JSON(domain.BetaStatus{IsBeta: true, Message: "Versão beta", MigrationNotice: &notice})
}

func (s *Server) search(c *fiber.Ctx) error {
	q := strings.ToLower(c.Query("query"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.AdvertiserSummary{}
	for _, adv := range s.advertisers {
		if !adv.IsActive {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(adv.BusinessName+" "+adv.Description), q) {
			continue
		}
		out = append(out, adv.AdvertiserSummary)
	}
	return c.JSON(out)
}

func (s *Server) top10(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.AdvertiserSummary{}
	for i := len(s.advertisers) - 1; i >= 0 && len(out) < 10; i-- {
		if s.advertisers[i].IsActive {
			out = append(out, s.advertisers[i].AdvertiserSummary)
		}
	}
	return c.JSON(out)
}

func (s *Server) findAdvertiser(id int) (int, bool) {
	for i, adv := range s.advertisers {
		if adv.ID == int64(id) {
			return i, true
		}
	}
	return 0, false
}

func (s *Server) advertiser(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findAdvertiser(id)
	if !ok {
		return fail(c, http.StatusNotFound, "Anunciante não encontrado")
	}
	return c.JSON(s.advertisers[idx])
}

func (s *Server) listReviews(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Review{}, s.reviews[int64(id)]...)
	return c.JSON(out)
}

func (s *Server) createReview(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
		return fail(c, http.StatusBadRequest, "Nota inválida")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findAdvertiser(id); !ok {
		return fail(c, http.StatusNotFound, "Anunciante não encontrado")
	}
	review := domain.Review{ID: int64(len(s.reviews[int64(id)]) + 1), Rating: req.Rating, Comment: req.Comment}
	s.reviews[int64(id)] = append(s.reviews[int64(id)], review)
	return c.Status(http.StatusCreated).JSON(review)
}

func (s *Server) listFavorites(c *fiber.Ctx) error {
	identity := identityFrom(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.AdvertiserSummary{}
	for _, adv := range s.advertisers {
		if s.favorites[identity.ID][adv.ID] {
			out = append(out, adv.AdvertiserSummary)
		}
	}
	return c.JSON(out)
}

func (s *Server) isFavorite(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	identity := identityFrom(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(fiber.Map{"is_favorite": s.favorites[identity.ID][int64(id)]})
}

func (s *Server) addFavorite(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	identity := identityFrom(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findAdvertiser(id); !ok {
		return fail(c, http.StatusNotFound, "Anunciante não encontrado")
	}
	if s.favorites[identity.ID] == nil {
		s.favorites[identity.ID] = map[int64]bool{}
	}
	s.favorites[identity.ID][int64(id)] = true
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Favorito adicionado"})
}

func (s *Server) removeFavorite(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	identity := identityFrom(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites[identity.ID], int64(id))
	return c.JSON(fiber.Map{"message": "Favorito removido"})
}

func (s *Server) stats(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.AdminStats{TotalAdvertisers: len(s.advertisers), TotalUsers: len(s.accounts)}
	for _, adv := range s.advertisers {
		if adv.IsActive {
			stats.ActiveAdvertisers++
		}
	}
	for _, list := range s.reviews {
		stats.TotalReviews += len(list)
	}
	for _, r := range s.reports {
		if r.Status == "pending" {
			stats.PendingReports++
		}
	}
	return c.JSON(stats)
}

func (s *Server) listPricing(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.PlanPricing{}
	for i, plan := range []domain.PlanType{domain.PlanMonthly, domain.PlanSemiannual, domain.PlanAnnual} {
		out = append(out, domain.PlanPricing{ID: int64(i + 1), PlanType: string(plan), Price: s.pricing[plan], Currency: "BRL"})
	}
	return c.JSON(out)
}

func (s *Server) updatePricing(c *fiber.Ctx) error {
	var req struct {
		PlanType string  `json:"plan_type"`
		Price    float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil || req.PlanType == "" || req.Price == 0 {
		return fail(c, http.StatusBadRequest, "Tipo de plano e preço são obrigatórios")
	}
	plan, err := domain.ParsePlanType(strings.ToLower(req.PlanType))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Tipo de plano inválido")
	}
	s.mu.Lock()
	s.pricing[plan] = req.Price
	s.mu.Unlock()
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Preço do plano %s atualizado com sucesso!", plan)})
}

func (s *Server) listReports(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(append([]domain.Report{}, s.reports...))
}

func (s *Server) resolveReport(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == int64(id) {
			s.reports[i].Status = "resolved"
			return c.JSON(fiber.Map{"message": "Denúncia resolvida"})
		}
	}
	return fail(c, http.StatusNotFound, "Denúncia não encontrada")
}

func (s *Server) toggleAdvertiser(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findAdvertiser(id)
	if !ok {
		return fail(c, http.StatusNotFound, "Anunciante não encontrado")
	}
	s.advertisers[idx].IsActive = !s.advertisers[idx].IsActive
	return c.JSON(fiber.Map{"is_active": s.advertisers[idx].IsActive})
}

func (s *Server) plans(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	monthly := s.pricing[domain.PlanMonthly]
	out := map[string]domain.Plan{
		"monthly": {Name: "Mensal", Price: monthly, PaymentURL: "https://pagamento.example/monthly"},
	}
	for plan, months := range map[domain.PlanType]float64{domain.PlanSemiannual: 6, domain.PlanAnnual: 12} {
		price := s.pricing[plan]
		equivalent := monthly * months
		out[string(plan)] = domain.Plan{
			Name:              string(plan),
			Price:             price,
			PaymentURL:        "https://pagamento.example/" + string(plan),
			MonthlyEquivalent: equivalent,
			SavingsAmount:     equivalent - price,
			SavingsPercentage: float64(int(((equivalent - price) / equivalent * 100) + 0.5)),
		}
	}
	return c.JSON(out)
}

func (s *Server) subscribe(c *fiber.Ctx) error {
	plan, err := domain.ParsePlanType(c.Params("plan"))
	if err != nil {
		return fail(c, http.StatusNotFound, "Plano não encontrado")
	}
	s.mu.Lock()
	price := s.pricing[plan]
	s.mu.Unlock()
	identity := identityFrom(c)
	return c.JSON(domain.SubscriptionIntent{
		Plan:            domain.Plan{Name: string(plan), Price: price, PaymentURL: "https://pagamento.example/" + string(plan)},
		ReferenceID:     "advertiser-" + identity.ID.String(),
		RedirectURL:     BaseURL + "/subscription-success",
		NotificationURL: BaseURL + "/webhook/pagseguro",
	})
}

func (s *Server) paymentInfo(c *fiber.Ctx) error {
	plan, err := domain.ParsePlanType(c.Params("plan"))
	if err != nil {
		return fail(c, http.StatusNotFound, "Plano não encontrado")
	}
	s.mu.Lock()
	price := s.pricing[plan]
	s.mu.Unlock()
	return c.JSON(domain.PaymentInfo{
		PlanType: string(plan),
		Amount:   price,
		PaymentMethods: domain.PaymentMethods{
			Pix: &domain.PixInstructions{Key: "pix@directory.test", KeyType: "email", Beneficiary: "Directory LTDA"},
		},
	})
}

func (s *Server) confirmPayment(c *fiber.Ctx) error {
	var req struct {
		PlanType      string `json:"plan_type"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.BodyParser(&req); err != nil || req.PaymentMethod == "" {
		return fail(c, http.StatusBadRequest, "Dados de pagamento inválidos")
	}
	return c.JSON(domain.PaymentConfirmation{Message: "Pagamento registrado", PaymentID: "pay-" + req.PlanType})
}

func (s *Server) subscriptionStatus(c *fiber.Ctx) error {
	return c.JSON(domain.SubscriptionStatus{
		Status:   "beta",
		IsActive: true,
		Message:  "Modo Beta - Acesso gratuito por tempo indeterminado",
	})
}
