package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/utils"
	"github.com/Brawl345/matrixweather/utils/httpUtils"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

type (
	Geocoder struct {
		baseURL string
		client  *http.Client
	}

	place struct {
		PlaceId     int     `json:"place_id"`
		Lat         float64 `json:"lat,string"`
		Lng         float64 `json:"lon,string"`
		Name        string  `json:"name"`
		DisplayName string  `json:"display_name"`
		Address     struct {
			City        string `json:"city"`
			Town        string `json:"town"`
			Village     string `json:"village"`
			CountryCode string `json:"country_code"`
		} `json:"address"`
	}
)

func NewGeocoder(baseURL string, client *http.Client) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (model.Location, error) {
	requestUrl, err := url.Parse(g.baseURL + "/search")
	if err != nil {
		return model.Location{}, err
	}

	q := requestUrl.Query()
	q.Set("accept-language", "en")
	q.Set("limit", "1")
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("q", address)
	requestUrl.RawQuery = q.Encode()

	var response []place
	err = httpUtils.MakeRequest(ctx, httpUtils.RequestOptions{
		Method:   httpUtils.MethodGet,
		URL:      requestUrl.String(),
		Headers:  map[string]string{"User-Agent": utils.UserAgent},
		Response: &response,
		Client:   g.client,
	})
	if err != nil {
		return model.Location{}, fmt.Errorf("error while geocoding: %w, url: %s", err, requestUrl.String())
	}

	if len(response) == 0 {
		return model.Location{}, model.ErrAddressNotFound
	}

	return response[0].location(), nil
}

func (p place) location() model.Location {
	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}
	if city == "" {
		city = p.Name
	}
	if city == "" {
		city = p.DisplayName
	}

	return model.Location{
		Latitude:  p.Lat,
		Longitude: p.Lng,
		City:      city,
		Country:   strings.ToUpper(p.Address.CountryCode),
	}
}
