package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/opsdesk/internal/commerce"
	"github.com/example/opsdesk/internal/events"
	"github.com/example/opsdesk/internal/middleware"
	"github.com/example/opsdesk/internal/models"
	"github.com/example/opsdesk/internal/pricing"
	"github.com/example/opsdesk/internal/services"
	"github.com/example/opsdesk/internal/utils"
)

// OrderHandler manages draft orders: creation, line edits, submission.
type OrderHandler struct {
	db        *gorm.DB
	calc      pricing.Calculator
	commerce  *commerce.Client
	publisher *events.Publisher
	telegram  *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, calc pricing.Calculator, client *commerce.Client, publisher *events.Publisher, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, calc: calc, commerce: client, publisher: publisher, telegram: telegram}
}

type draftCustomerRequest struct {
	CustomerType      string `json:"customer_type"`
	CustomerID        string `json:"customer_id"`
	BusinessProfileID string `json:"business_profile_id"`
}

type createDraftRequest struct {
	draftCustomerRequest
	Notes string `json:"notes"`
}

// CreateDraft opens a new draft order, resolving the customer's state code
// for the tax split.
func (h *OrderHandler) CreateDraft(c *fiber.Ctx) error {
	staffID, ok := middleware.GetCurrentStaffID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.CustomerType == "" {
		req.CustomerType = models.CustomerTypeB2C
	}
	if req.CustomerType != models.CustomerTypeB2C && req.CustomerType != models.CustomerTypeB2B {
		return fiber.NewError(fiber.StatusBadRequest, "customer_type must be B2C or B2B")
	}

	name, stateCode, err := h.resolveCustomer(req.draftCustomerRequest)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	draft := models.DraftOrder{
		StaffID:           staffID,
		OrderNumber:       generateOrderNumber(),
		Status:            models.DraftStatusOpen,
		CustomerType:      req.CustomerType,
		CustomerID:        req.CustomerID,
		BusinessProfileID: req.BusinessProfileID,
		CustomerName:      name,
		CustomerStateCode: stateCode,
		Notes:             req.Notes,
	}

	if err := h.db.Create(&draft).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": h.draftPayload(draft)})
}

// ListDrafts returns paginated draft orders.
func (h *OrderHandler) ListDrafts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.DraftOrder{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var drafts []models.DraftOrder
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&drafts).Error; err != nil {
		return err
	}

	payloads := make([]fiber.Map, 0, len(drafts))
	for _, d := range drafts {
		payloads = append(payloads, h.draftPayload(d))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payloads,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetDraft returns one draft with rounded lines and totals.
func (h *OrderHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.loadDraft(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.draftPayload(*draft)})
}

// UpdateCustomer reselects the draft's customer. The state code is
// re-resolved and the tax split of every line follows it.
func (h *OrderHandler) UpdateCustomer(c *fiber.Ctx) error {
	draft, err := h.loadDraft(c.Params("id"))
	if err != nil {
		return err
	}
	if draft.Status != models.DraftStatusOpen {
		return fiber.NewError(fiber.StatusConflict, "draft already submitted")
	}

	var req draftCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.CustomerType != models.CustomerTypeB2C && req.CustomerType != models.CustomerTypeB2B {
		return fiber.NewError(fiber.StatusBadRequest, "customer_type must be B2C or B2B")
	}

	name, stateCode, err := h.resolveCustomer(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	lines := toPricingLines(draft.Items)
	for i := range lines {
		lines[i] = h.calc.Refresh(lines[i], stateCode)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(draft).Updates(map[string]any{
			"customer_type":       req.CustomerType,
			"customer_id":         req.CustomerID,
			"business_profile_id": req.BusinessProfileID,
			"customer_name":       name,
			"customer_state_code": stateCode,
		}).Error; err != nil {
			return err
		}
		return replaceLines(tx, draft.ID, draft.Items, lines)
	})
	if err != nil {
		return err
	}

	reloaded, err := h.loadDraft(draft.ID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.draftPayload(*reloaded)})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product variant to the draft. Adding a variant already in
// the order merges quantities into the existing line without touching its
// edited price.
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	draft, err := h.loadDraft(c.Params("id"))
	if err != nil {
		return err
	}
	if draft.Status != models.DraftStatusOpen {
		return fiber.NewError(fiber.StatusConflict, "draft already submitted")
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	product, err := h.commerce.GetProduct(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	input := catalogInput(product, req.VariantID)
	line := h.calc.NewLineItem(input, req.Quantity, draft.CustomerStateCode)

	lines := h.calc.MergeAdd(toPricingLines(draft.Items), line, draft.CustomerStateCode)

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		return replaceLines(tx, draft.ID, draft.Items, lines)
	}); err != nil {
		return err
	}

	reloaded, err := h.loadDraft(draft.ID.String())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": h.draftPayload(*reloaded)})
}

type updateItemRequest struct {
	Quantity     *int     `json:"quantity"`
	MRP          *float64 `json:"mrp"`
	DiscountRate *float64 `json:"discount_rate"`
	SellingPrice *float64 `json:"selling_price"`
	GSTRate      *float64 `json:"gst_tax_rate"`
}

// editsFrom maps a partial update to typed edit operations. Quantity and
// GST rate apply first; for the price ground truth, MRP/discount take
// precedence and an explicit selling price only applies when it is the sole
// price field present.
func editsFrom(req updateItemRequest) []pricing.Edit {
	var edits []pricing.Edit
	if req.Quantity != nil {
		edits = append(edits, pricing.SetQuantity{Quantity: *req.Quantity})
	}
	if req.GSTRate != nil {
		edits = append(edits, pricing.SetGSTRate{Rate: *req.GSTRate})
	}
	switch {
	case req.MRP != nil || req.DiscountRate != nil:
		if req.MRP != nil {
			edits = append(edits, pricing.SetMRP{MRP: *req.MRP})
		}
		if req.DiscountRate != nil {
			edits = append(edits, pricing.SetDiscountRate{Rate: *req.DiscountRate})
		}
	case req.SellingPrice != nil:
		edits = append(edits, pricing.SetSellingPrice{Price: *req.SellingPrice})
	}
	return edits
}

// UpdateItem applies a partial edit to one line and reconciles it.
func (h *OrderHandler) UpdateItem(c *fiber.Ctx) error {
	draft, err := h.loadDraft(c.Params("id"))
	if err != nil {
		return err
	}
	if draft.Status != models.DraftStatusOpen {
		return fiber.NewError(fiber.StatusConflict, "draft already submitted")
	}

	itemID, err := uuid.Parse(c.Params("itemID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	edits := editsFrom(req)
	if len(edits) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no editable fields in request")
	}

	found := false
	lines := toPricingLines(draft.Items)
	for i, item := range draft.Items {
		if item.ID == itemID {
			for _, edit := range edits {
				lines[i] = h.calc.Apply(lines[i], edit, draft.CustomerStateCode)
			}
			found = true
			break
		}
	}
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "line item not found")
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		return replaceLines(tx, draft.ID, draft.Items, lines)
	}); err != nil {
		return err
	}

	reloaded, err := h.loadDraft(draft.ID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.draftPayload(*reloaded)})
}

// RemoveItem deletes one line from the draft.
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	draft, err := h.loadDraft(c.Params("id"))
	if err != nil {
		return err
	}
	if draft.Status != models.DraftStatusOpen {
		return fiber.NewError(fiber.StatusConflict, "draft already submitted")
	}

	itemID, err := uuid.Parse(c.Params("itemID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	if err := h.db.Delete(&models.DraftLineItem{}, "id = ? AND draft_order_id = ?", itemID, draft.ID).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitDraft sends the draft to the commerce API. A remote failure leaves
// the draft untouched.
func (h *OrderHandler) SubmitDraft(c *fiber.Ctx) error {
	draft, err := h.loadDraft(c.Params("id"))
	if err != nil {
		return err
	}
	if draft.Status != models.DraftStatusOpen {
		return fiber.NewError(fiber.StatusConflict, "draft already submitted")
	}
	if len(draft.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "draft has no line items")
	}
	if draft.CustomerID == "" && draft.BusinessProfileID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "draft has no customer")
	}

	submission := commerce.OrderSubmission{
		ReferenceNumber:   draft.OrderNumber,
		CustomerType:      draft.CustomerType,
		CustomerID:        draft.CustomerID,
		BusinessProfileID: draft.BusinessProfileID,
		StateCode:         draft.CustomerStateCode,
		Notes:             draft.Notes,
	}
	for _, item := range draft.Items {
		perUnitDiscount := 0.0
		if item.Quantity > 0 {
			perUnitDiscount = item.DiscountAmount / float64(item.Quantity)
		}
		submission.Lines = append(submission.Lines, commerce.OrderLine{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPrice:      pricing.Round2(item.UnitPrice),
			DiscountRate:   pricing.Round2(item.DiscountRate),
			DiscountAmount: pricing.Round2(perUnitDiscount),
			GSTTaxRate:     item.GSTRate,
			HSNCode:        item.HSNCode,
		})
	}

	result, err := h.commerce.SubmitOrder(submission)
	if err != nil {
		middleware.RecordOrderOperation("submit", false)
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	middleware.RecordOrderOperation("submit", true)

	now := time.Now()
	if err := h.db.Model(draft).Updates(map[string]any{
		"status":              models.DraftStatusSubmitted,
		"remote_order_id":     result.OrderID,
		"remote_order_number": result.OrderNumber,
		"submitted_at":        &now,
	}).Error; err != nil {
		return err
	}

	go h.notifySubmitted(*draft, result)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           draft.ID,
			"order_number": draft.OrderNumber,
			"remote_order": result,
			"submitted_at": now,
		},
	})
}

// notifySubmitted publishes the order event and pings the ops chat.
func (h *OrderHandler) notifySubmitted(draft models.DraftOrder, result *commerce.OrderResult) {
	totals := pricing.Sum(toPricingLines(draft.Items)).Rounded()

	if err := h.publisher.PublishOrderSubmitted(events.OrderSubmittedEvent{
		DraftID:       draft.ID.String(),
		OrderID:       result.OrderID,
		OrderNumber:   result.OrderNumber,
		CustomerType:  draft.CustomerType,
		StateCode:     draft.CustomerStateCode,
		Subtotal:      totals.Subtotal,
		TotalDiscount: totals.TotalDiscount,
		TotalGST:      totals.TotalGST,
		GrandTotal:    totals.GrandTotal,
	}); err != nil {
		log.Printf("[Order] Failed to publish order event for %s: %v", draft.OrderNumber, err)
	}

	if h.telegram == nil {
		return
	}
	items := make([]services.OrderItemNotification, 0, len(draft.Items))
	for _, item := range draft.Items {
		items = append(items, services.OrderItemNotification{
			Name:     item.ProductName,
			Variant:  item.VariantLabel,
			Quantity: item.Quantity,
			Price:    pricing.Round2(item.SellingPrice),
		})
	}
	if err := h.telegram.NotifyOrderSubmitted(services.OrderNotification{
		OrderNumber:   result.OrderNumber,
		CustomerName:  draft.CustomerName,
		CustomerType:  draft.CustomerType,
		StateCode:     draft.CustomerStateCode,
		Items:         items,
		Subtotal:      totals.Subtotal,
		TotalDiscount: totals.TotalDiscount,
		TotalGST:      totals.TotalGST,
		GrandTotal:    totals.GrandTotal,
	}); err != nil {
		log.Printf("[Order] Telegram notification failed for %s: %v", result.OrderNumber, err)
	}
}

func (h *OrderHandler) loadDraft(rawID string) (*models.DraftOrder, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var draft models.DraftOrder
	if err := h.db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at asc")
	}).First(&draft, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "draft not found")
		}
		return nil, err
	}
	return &draft, nil
}

// draftPayload renders the draft with presentation rounding; stored values
// keep full precision.
func (h *OrderHandler) draftPayload(draft models.DraftOrder) fiber.Map {
	lines := toPricingLines(draft.Items)
	totals := pricing.Sum(lines).Rounded()

	items := make([]fiber.Map, 0, len(draft.Items))
	for i, item := range draft.Items {
		rounded := lines[i].Rounded()
		items = append(items, fiber.Map{
			"id":   item.ID,
			"line": rounded,
		})
	}

	draft.Items = nil
	return fiber.Map{
		"order":  draft,
		"items":  items,
		"totals": totals,
	}
}

// resolveCustomer fetches the selected customer and resolves the state code
// used for the tax split.
func (h *OrderHandler) resolveCustomer(req draftCustomerRequest) (string, string, error) {
	seller := h.calc.SellerStateCode

	switch req.CustomerType {
	case models.CustomerTypeB2B:
		if req.BusinessProfileID == "" {
			return "", seller, nil
		}
		profile, err := h.commerce.GetBusinessProfile(req.BusinessProfileID)
		if err != nil {
			return "", "", err
		}
		return profile.BusinessName, commerce.ResolveStateCode(profile.Addresses, seller), nil
	default:
		if req.CustomerID == "" {
			return "", seller, nil
		}
		customer, err := h.commerce.GetCustomer(req.CustomerID)
		if err != nil {
			return "", "", err
		}
		name := customer.FirstName
		if customer.LastName != "" {
			name = customer.FirstName + " " + customer.LastName
		}
		return name, commerce.ResolveStateCode(customer.Addresses, seller), nil
	}
}

func catalogInput(product *commerce.Product, variantID string) pricing.CatalogInput {
	input := pricing.CatalogInput{
		ProductID:    product.ID,
		ProductName:  product.Name,
		HSNCode:      product.HSNCode,
		MRP:          product.MRP,
		SellingPrice: product.Price,
		GSTRate:      product.GSTTaxRate,
	}
	for _, v := range product.Variants {
		if v.ID == variantID {
			input.VariantID = v.ID
			input.VariantLabel = variantLabel(v)
			if v.MRP > 0 {
				input.MRP = v.MRP
			}
			if v.Price > 0 {
				input.SellingPrice = v.Price
			}
			break
		}
	}
	return input
}

func variantLabel(v commerce.ProductVariant) string {
	if v.Color != "" && v.Size != "" {
		return v.Color + " / " + v.Size
	}
	if v.Color != "" {
		return v.Color
	}
	if v.Size != "" {
		return v.Size
	}
	return v.SKU
}

// toPricingLines converts stored lines for recalculation.
func toPricingLines(items []models.DraftLineItem) []pricing.LineItem {
	lines := make([]pricing.LineItem, len(items))
	for i, item := range items {
		lines[i] = pricing.LineItem{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			ProductName:    item.ProductName,
			VariantLabel:   item.VariantLabel,
			HSNCode:        item.HSNCode,
			Quantity:       item.Quantity,
			MRP:            item.MRP,
			DiscountRate:   item.DiscountRate,
			DiscountAmount: item.DiscountAmount,
			SellingPrice:   item.SellingPrice,
			UnitPrice:      item.UnitPrice,
			GSTRate:        item.GSTRate,
			GSTAmount:      item.GSTAmount,
			IGSTAmount:     item.IGSTAmount,
			CGSTAmount:     item.CGSTAmount,
			SGSTAmount:     item.SGSTAmount,
			FinalItemPrice: item.FinalItemPrice,
		}
	}
	return lines
}

// lineRows rebuilds the stored rows for lines. A line for a product variant
// already present keeps the existing row's ID and creation time, so item IDs
// held by clients stay valid across edits.
func lineRows(draftID uuid.UUID, existing []models.DraftLineItem, lines []pricing.LineItem) []models.DraftLineItem {
	rows := make([]models.DraftLineItem, 0, len(lines))
	for _, line := range lines {
		row := models.DraftLineItem{
			DraftOrderID:   draftID,
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			ProductName:    line.ProductName,
			VariantLabel:   line.VariantLabel,
			HSNCode:        line.HSNCode,
			Quantity:       line.Quantity,
			MRP:            line.MRP,
			DiscountRate:   line.DiscountRate,
			DiscountAmount: line.DiscountAmount,
			SellingPrice:   line.SellingPrice,
			UnitPrice:      line.UnitPrice,
			GSTRate:        line.GSTRate,
			GSTAmount:      line.GSTAmount,
			IGSTAmount:     line.IGSTAmount,
			CGSTAmount:     line.CGSTAmount,
			SGSTAmount:     line.SGSTAmount,
			FinalItemPrice: line.FinalItemPrice,
		}
		for _, prev := range existing {
			if prev.ProductID == line.ProductID && prev.VariantID == line.VariantID {
				row.ID = prev.ID
				row.CreatedAt = prev.CreatedAt
				break
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// replaceLines swaps the draft's full line set, mirroring the whole-array
// replacement the console does on every edit.
func replaceLines(tx *gorm.DB, draftID uuid.UUID, existing []models.DraftLineItem, lines []pricing.LineItem) error {
	if err := tx.Delete(&models.DraftLineItem{}, "draft_order_id = ?", draftID).Error; err != nil {
		return err
	}
	for _, row := range lineRows(draftID, existing, lines) {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("DO-%d", time.Now().UnixNano()%1000000000)
}
