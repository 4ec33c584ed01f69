// ABOUTME: Version and product identity constants
// ABOUTME: Shared by the soundboard, the bridge advertisement and padsend
package version

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the product name shown in the UI and advertised over mDNS
	Product = "chime"

	// Manufacturer identifies who built the product
	Manufacturer = "Resonate Protocol"
)

// String returns "product version"
func String() string {
	return Product + " " + Version
}
