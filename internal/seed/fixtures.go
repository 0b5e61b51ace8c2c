package seed

import "github.com/shopspring/decimal"

const samplePassword = "12345678"

// Default returns the bundled sample data: one admin, two customers and a
// small electronics catalog.
func Default() Fixtures {
	return Fixtures{
		Users: []UserFixture{
			{Name: "Admin", Email: "admin@email.com", Password: samplePassword, IsAdmin: true},
			{Name: "Mohammad Kazemi", Email: "kazemi@gmail.com", Password: samplePassword},
			{Name: "Amir Mousavi", Email: "mosavi@gmail.com", Password: samplePassword},
		},
		Products: []ProductFixture{
			{
				Name:         "Airpods Wireless Bluetooth Headphones",
				Image:        "/images/airpods.jpg",
				Brand:        "Apple",
				Category:     "Electronics",
				Description:  "Bluetooth technology lets you connect it with compatible devices wirelessly.",
				Price:        decimal.RequireFromString("89.99"),
				CountInStock: 10,
			},
			{
				Name:         "iPhone 13 Pro 256GB Memory",
				Image:        "/images/phone.jpg",
				Brand:        "Apple",
				Category:     "Electronics",
				Description:  "A transformative triple-camera system with a 6.1-inch display.",
				Price:        decimal.RequireFromString("599.99"),
				CountInStock: 7,
			},
			{
				Name:         "Cannon EOS 80D DSLR Camera",
				Image:        "/images/camera.jpg",
				Brand:        "Cannon",
				Category:     "Electronics",
				Description:  "24.2 megapixel sensor with a 45-point all cross-type autofocus system.",
				Price:        decimal.RequireFromString("929.99"),
				CountInStock: 5,
			},
			{
				Name:         "Sony Playstation 5",
				Image:        "/images/playstation.jpg",
				Brand:        "Sony",
				Category:     "Electronics",
				Description:  "Console with an ultra-high speed SSD and 4K output.",
				Price:        decimal.RequireFromString("399.99"),
				CountInStock: 11,
			},
			{
				Name:         "Logitech G-Series Gaming Mouse",
				Image:        "/images/mouse.jpg",
				Brand:        "Logitech",
				Category:     "Electronics",
				Description:  "Programmable buttons and an adjustable DPI sensor.",
				Price:        decimal.RequireFromString("49.99"),
				CountInStock: 7,
			},
			{
				Name:         "Amazon Echo Dot 3rd Generation",
				Image:        "/images/alexa.jpg",
				Brand:        "Amazon",
				Category:     "Electronics",
				Description:  "Compact smart speaker with Alexa voice control.",
				Price:        decimal.RequireFromString("29.99"),
				CountInStock: 0,
			},
		},
	}
}
