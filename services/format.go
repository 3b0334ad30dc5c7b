package services

import (
	"fmt"
	"strings"

	"vehicle-reconciler/models"
)

const maxDescriptionLength = 500

// FormatListingDetails renders one listing for terminal display in the
// single-lookup path.
func FormatListingDetails(listing *models.Listing, provider string) string {
	if listing == nil {
		return "No vehicle data available"
	}

	sep := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)

	var b strings.Builder
	b.WriteString("\n" + sep + "\n")
	b.WriteString(center(fmt.Sprintf("%s VEHICLE DETAILS - Stock #%s",
		strings.ToUpper(provider), orNA(listing.StockNo)), 60))
	b.WriteString("\n" + sep + "\n")

	writeField(&b, "Make", listing.Make)
	writeField(&b, "Model", listing.Model)
	writeField(&b, "Variant", listing.Variant)
	writeField(&b, "Year", listing.ManuYear.String())
	writeField(&b, "Price", dollars(listing.Price.AdvertisedPrice.String()))
	writeField(&b, "Color", listing.ColourBody)
	writeField(&b, "Odometer", withUnit(listing.Odometer.String(), "km"))
	writeField(&b, "Registration", listing.Rego)
	writeField(&b, "VIN", listing.VIN)
	writeField(&b, "Location", location(listing))

	b.WriteString("\n" + thin + "\n")
	b.WriteString(center("SPECIFICATIONS", 60))
	b.WriteString("\n" + thin + "\n")
	writeField(&b, "Body Type", listing.Vehicle.BodyType)
	writeField(&b, "Transmission", listing.Vehicle.TransmissionType)
	writeField(&b, "Fuel Type", listing.Vehicle.FuelType)
	writeField(&b, "Engine Size", withUnit(listing.Vehicle.EngineSize.String(), "L"))
	writeField(&b, "Cylinders", listing.Vehicle.Cylinders.String())
	writeField(&b, "Drive Type", listing.Vehicle.DriveType)
	writeField(&b, "Seats", listing.Vehicle.Seats.String())
	writeField(&b, "Doors", listing.Vehicle.Doors.String())

	if listing.Description != "" {
		b.WriteString("\n" + thin + "\n")
		b.WriteString(center("DESCRIPTION", 60))
		b.WriteString("\n" + thin + "\n")
		b.WriteString(description(listing.Description) + "\n")
	}

	b.WriteString("\n" + sep + "\n")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-15s %s\n", label+":", orNA(value))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func dollars(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return "$" + s
}

func withUnit(s, unit string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s + " " + unit
}

func location(l *models.Listing) string {
	switch {
	case l.LocationCity == "":
		return l.LocationState
	case l.LocationState == "":
		return l.LocationCity
	}
	return l.LocationCity + ", " + l.LocationState
}

func description(s string) string {
	s = strings.ReplaceAll(s, `\r\n`, "\n")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if len(s) > maxDescriptionLength {
		s = s[:maxDescriptionLength] + "... [Description truncated]"
	}
	return s
}
