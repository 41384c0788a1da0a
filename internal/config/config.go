package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Database    Database

	OpenAI   OpenAI   `envPrefix:"OPENAI_"`
	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Printful Printful `envPrefix:"PRINTFUL_"`
	Product  Product  `envPrefix:"PRODUCT_"`
}

type OpenAI struct {
	APIKey    string `env:"API_KEY"`
	Model     string `env:"IMAGE_MODEL" envDefault:"dall-e-3"`
	ImageSize string `env:"IMAGE_SIZE" envDefault:"1024x1024"`
	Quality   string `env:"IMAGE_QUALITY" envDefault:"standard"`
}

type Stripe struct {
	BaseApiURL    string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Printful struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.printful.com"`
	APIKey     string `env:"API_KEY"`
	// Canvas product variant from the Printful catalog.
	VariantID int64 `env:"VARIANT_ID" envDefault:"6879"`
}

type Product struct {
	Name string `env:"NAME" envDefault:"Custom AI Canvas Print"`
	// Price in minor currency units.
	PriceCents int64  `env:"PRICE_CENTS" envDefault:"4999"`
	Currency   string `env:"CURRENCY" envDefault:"usd"`
}

type Database struct {
	Path string `env:"DATABASE_PATH" envDefault:"promptcanvas.db"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
	// Directory holding the static storefront pages.
	WebDir string `env:"WEB_DIR" envDefault:"web"`
}
