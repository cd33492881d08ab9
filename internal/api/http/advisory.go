package httpapi

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/agripulse/internal/advisory"
	"github.com/i474232898/agripulse/internal/agronomy"
	"github.com/i474232898/agripulse/internal/store"
)

type advisoryHandlers struct {
	svc *advisory.Service
}

// listQuery holds the filters accepted by GET /assessments.
type listQuery struct {
	Crop   string
	Remark string `validate:"omitempty,oneof=normal crop_failure"`
	Limit  int    `validate:"gte=0,lte=500"`
}

func (h *advisoryHandlers) createAssessment(c *fiber.Ctx) error {
	var req advisory.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.svc.Assess(c.UserContext(), req)
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *advisoryHandlers) getAssessment(c *fiber.Ctx) error {
	rec, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "assessment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load assessment")
	}
	return c.JSON(rec)
}

func (h *advisoryHandlers) listAssessments(c *fiber.Ctx) error {
	q := listQuery{
		Crop:   c.Query("crop"),
		Remark: c.Query("remark"),
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be an integer")
		}
		q.Limit = n
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	recs, err := h.svc.List(c.UserContext(), store.AssessmentFilter{
		Crop:   q.Crop,
		Remark: q.Remark,
		Limit:  q.Limit,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list assessments")
	}
	return c.JSON(fiber.Map{
		"count":       len(recs),
		"assessments": recs,
	})
}

func (h *advisoryHandlers) fertility(c *fiber.Ctx) error {
	var req advisory.FertilityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.svc.Fertility(req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(res)
}

func (h *advisoryHandlers) listCrops(c *fiber.Ctx) error {
	catalog := h.svc.Engine().Catalog()
	profiles := catalog.Profiles()
	out := make([]agronomy.CropProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, catalog.Resolve(p.Name))
	}
	return c.JSON(fiber.Map{
		"count": len(out),
		"crops": out,
	})
}

// getCrop returns the resolved profile the engine would use for the name.
// Unknown crops are not an error; they resolve with known=false.
func (h *advisoryHandlers) getCrop(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid crop name")
	}
	return c.JSON(h.svc.Engine().Profile(name))
}

func serviceError(err error) error {
	if errors.Is(err, advisory.ErrInvalidInput) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "internal error")
}
