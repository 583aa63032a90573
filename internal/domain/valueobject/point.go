package valueobject

// Point is a longitude/latitude coordinate in decimal degrees (WGS 84).
type Point struct {
	Lon float64
	Lat float64
}

func NewPoint(lon, lat float64) Point {
	return Point{Lon: lon, Lat: lat}
}

func (p Point) IsValid() bool {
	return p.Lat >= -90 && p.Lat <= 90 &&
		p.Lon >= -180 && p.Lon <= 180
}
