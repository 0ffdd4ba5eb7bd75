package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/cafe-api/kds"
	"github.com/yeremiapane/cafe-api/models"
	"github.com/yeremiapane/cafe-api/services"
	"github.com/yeremiapane/cafe-api/utils"
)

const (
	msgNoCafes        = "Sorry, we don't have any cafes yet."
	msgNoCafeAtLoc    = "Sorry, we don't have a cafe at that location."
	msgNoCafeWithID   = "Sorry, we don't have a cafe with that id."
	msgDuplicateCafe  = "Sorry, a cafe with that name already exists."
	msgInternalError  = "Sorry, something went wrong on our side."
	msgCafeAdded      = "Successfully added the new cafe."
	msgPriceUpdated   = "Successfully updated the price."
	msgCafeDeleted    = "Successfully deleted the cafe."
	msgMalformedPrice = "Request body must be JSON like {\"new_price\": \"£2.50\"}."
)

type CafeController struct {
	Store *services.CafeStore
	Hub   *kds.Hub
}

func NewCafeController(store *services.CafeStore, hub *kds.Hub) *CafeController {
	return &CafeController{Store: store, Hub: hub}
}

// castBool is a cafe amenity flag. JSON accepts true/false, numbers (non-zero
// is true) and strings strconv.ParseBool understands. Form values are parsed by
// gin as a plain bool.
type castBool bool

func (b *castBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*b = true
		return nil
	case bytes.Equal(data, []byte("false")):
		*b = false
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%q is not a boolean", s)
		}
		*b = castBool(v)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%s is not a boolean", data)
	}
	*b = n != 0
	return nil
}

type addCafeRequest struct {
	Name         string    `json:"name" form:"name" binding:"required"`
	MapURL       string    `json:"map_url" form:"map_url" binding:"required"`
	ImgURL       string    `json:"img_url" form:"img_url" binding:"required"`
	Location     string    `json:"location" form:"location" binding:"required"`
	Seats        string    `json:"seats" form:"seats" binding:"required"`
	HasToilet    *castBool `json:"has_toilet" form:"has_toilet" binding:"required"`
	HasWifi      *castBool `json:"has_wifi" form:"has_wifi" binding:"required"`
	HasSockets   *castBool `json:"has_sockets" form:"has_sockets" binding:"required"`
	CanTakeCalls *castBool `json:"can_take_calls" form:"can_take_calls" binding:"required"`
	CoffeePrice  *string   `json:"coffee_price" form:"coffee_price"`
}

func (r addCafeRequest) toModel() models.Cafe {
	return models.Cafe{
		Name:         r.Name,
		MapURL:       r.MapURL,
		ImgURL:       r.ImgURL,
		Location:     r.Location,
		Seats:        r.Seats,
		HasToilet:    bool(*r.HasToilet),
		HasWifi:      bool(*r.HasWifi),
		HasSockets:   bool(*r.HasSockets),
		CanTakeCalls: bool(*r.CanTakeCalls),
		CoffeePrice:  r.CoffeePrice,
	}
}

// Home renders the landing page.
func (cc *CafeController) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Cafe & Wifi API",
	})
}

// GetRandomCafe -> GET /random
func (cc *CafeController) GetRandomCafe(c *gin.Context) {
	cafe, err := cc.Store.Random(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound, msgNoCafes)
			return
		}
		cc.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafe": cafe})
}

// GetAllCafes -> GET /all
func (cc *CafeController) GetAllCafes(c *gin.Context) {
	cafes, err := cc.Store.List(c.Request.Context())
	if err != nil {
		cc.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafes": cafes})
}

// SearchCafes -> GET /search?loc=<location>. No match is a soft error with status 200.
func (cc *CafeController) SearchCafes(c *gin.Context) {
	location := c.Query("loc")

	cafes, err := cc.Store.FindByLocation(c.Request.Context(), location)
	if err != nil {
		cc.internalError(c, err)
		return
	}
	if len(cafes) == 0 {
		utils.RespondError(c, http.StatusOK, utils.ErrNotFound, msgNoCafeAtLoc)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafes": cafes})
}

// GetCafeByID -> GET /cafes/:cafe_id
func (cc *CafeController) GetCafeByID(c *gin.Context) {
	id, ok := cafeIDParam(c)
	if !ok {
		return
	}

	cafe, err := cc.Store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound, msgNoCafeWithID)
			return
		}
		cc.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cafe": cafe})
}

// AddCafe -> POST /add, JSON or form body
func (cc *CafeController) AddCafe(c *gin.Context) {
	var req addCafeRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ErrBadRequest, bindErrorMessage(err, req))
		return
	}

	cafe := req.toModel()
	if err := cc.Store.Create(c.Request.Context(), &cafe); err != nil {
		if errors.Is(err, services.ErrDuplicateCafe) {
			utils.RespondError(c, http.StatusConflict, utils.ErrConflict, msgDuplicateCafe)
			return
		}
		cc.internalError(c, err)
		return
	}

	cc.Hub.BroadcastCafeAdded(cafe)
	utils.InfoLogger.Printf("New cafe added: %s (id=%d, location=%s)", cafe.Name, cafe.ID, cafe.Location)
	utils.RespondSuccess(c, http.StatusOK, msgCafeAdded)
}

// UpdatePrice -> PATCH /update-price/:cafe_id with {"new_price": "..."}
func (cc *CafeController) UpdatePrice(c *gin.Context) {
	id, ok := cafeIDParam(c)
	if !ok {
		return
	}

	var body struct {
		NewPrice *string `json:"new_price"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ErrBadRequest, msgMalformedPrice)
		return
	}

	cafe, err := cc.Store.UpdatePrice(c.Request.Context(), id, body.NewPrice)
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound, msgNoCafeWithID)
			return
		}
		cc.internalError(c, err)
		return
	}

	cc.Hub.BroadcastPriceUpdated(*cafe)
	utils.InfoLogger.Printf("Cafe %d price changed", cafe.ID)
	utils.RespondSuccess(c, http.StatusOK, msgPriceUpdated)
}

// ReportClosed -> DELETE /report-closed/:cafe_id. The api_key is checked by
// middlewares.APIKeyMiddleware before this runs.
func (cc *CafeController) ReportClosed(c *gin.Context) {
	id, ok := cafeIDParam(c)
	if !ok {
		return
	}

	cafe, err := cc.Store.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound, msgNoCafeWithID)
			return
		}
		cc.internalError(c, err)
		return
	}

	cc.Hub.BroadcastCafeClosed(*cafe)
	utils.InfoLogger.Printf("Cafe %d (%s) reported closed and deleted", cafe.ID, cafe.Name)
	utils.RespondSuccess(c, http.StatusOK, msgCafeDeleted)
}

func (cc *CafeController) internalError(c *gin.Context, err error) {
	utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	utils.RespondError(c, http.StatusInternalServerError, utils.ErrInternalError, msgInternalError)
}

// cafeIDParam parses :cafe_id. Anything that is not an integer is treated as
// an unknown cafe.
func cafeIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("cafe_id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound, msgNoCafeWithID)
		return 0, false
	}
	return id, true
}

// bindErrorMessage turns validator errors into a list of missing JSON keys.
func bindErrorMessage(err error, req interface{}) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Request body is malformed: " + err.Error()
	}

	t := reflect.TypeOf(req)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if tag := strings.Split(sf.Tag.Get("json"), ",")[0]; tag != "" {
				name = tag
			}
		}
		fields = append(fields, name)
	}
	return "Missing required field(s): " + strings.Join(fields, ", ")
}
