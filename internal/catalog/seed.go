package catalog

import "digitora/pkg/domain"

// Seed returns the static catalog shipped with the storefront. Download
// counts here are the baseline; locally accrued extras are layered on top
// at store construction.
func Seed() []domain.Course {
	return []domain.Course{
		{
			ID:          "crypto-101",
			Title:       "Crypto Fundamentals: From Zero to On-Chain",
			Description: "Wallets, exchanges, custody and the market structure every digital asset investor must understand before deploying capital.",
			Price:       49.99,
			Category:    domain.CategoryCrypto,
			Level:       domain.LevelBeginner,
			Rating:      4.8,
			Students:    3240,
			Downloads:   1210,
			Image:       "https://picsum.photos/id/1060/800/600",
			Tags:        []string{"Bitcoin", "Ethereum", "Wallets", "Exchanges"},
			DownloadURL: "https://materials.digitora.example/crypto-101.zip",
		},
		{
			ID:          "crypto-ta",
			Title:       "Technical Analysis for Crypto Markets",
			Description: "Candlesticks, market structure, liquidity zones and risk management applied to 24/7 crypto markets.",
			Price:       89.99,
			Category:    domain.CategoryCrypto,
			Level:       domain.LevelIntermediate,
			Rating:      4.7,
			Students:    2105,
			Downloads:   860,
			Image:       "https://picsum.photos/id/1076/800/600",
			Tags:        []string{"TA", "Charts", "Risk Management"},
			DownloadURL: "https://materials.digitora.example/crypto-ta.zip",
		},
		{
			ID:          "forex-pro",
			Title:       "Professional Forex Trading",
			Description: "Institutional order flow, session timing and macro drivers behind the major currency pairs.",
			Price:       119.99,
			Category:    domain.CategoryForex,
			Level:       domain.LevelIntermediate,
			Rating:      4.6,
			Students:    1780,
			Downloads:   540,
			Image:       "https://picsum.photos/id/1082/800/600",
			Tags:        []string{"Forex", "Order Flow", "Macro"},
			DownloadURL: "https://materials.digitora.example/forex-pro.zip",
		},
		{
			ID:          "stocks-options",
			Title:       "Stocks & Options Income Strategies",
			Description: "Covered calls, cash-secured puts and earnings plays for building consistent equity income.",
			Price:       99.99,
			Category:    domain.CategoryStocks,
			Level:       domain.LevelAdvanced,
			Rating:      4.5,
			Students:    1430,
			Downloads:   390,
			Image:       "https://picsum.photos/id/1084/800/600",
			Tags:        []string{"Options", "Dividends", "Earnings"},
			DownloadURL: "https://materials.digitora.example/stocks-options.zip",
		},
		{
			ID:          "indices-swing",
			Title:       "Index Swing Trading Masterclass",
			Description: "Swing setups on S&P 500, Nasdaq and DAX with volatility-aware position sizing.",
			Price:       79.99,
			Category:    domain.CategoryIndices,
			Level:       domain.LevelIntermediate,
			Rating:      4.4,
			Students:    980,
			Downloads:   270,
			Image:       "https://picsum.photos/id/1032/800/600",
			Tags:        []string{"Indices", "Swing Trading", "Volatility"},
			DownloadURL: "https://materials.digitora.example/indices-swing.zip",
		},
		{
			ID:          "commodities-gold",
			Title:       "Commodities: Gold, Oil & Beyond",
			Description: "Supply cycles, seasonality and futures mechanics across the major commodity complexes.",
			Price:       69.99,
			Category:    domain.CategoryCommodities,
			Level:       domain.LevelBeginner,
			Rating:      4.3,
			Students:    860,
			Downloads:   190,
			Image:       "https://picsum.photos/id/1040/800/600",
			Tags:        []string{"Gold", "Oil", "Futures", "Seasonality"},
			DownloadURL: "https://materials.digitora.example/commodities-gold.zip",
		},
		{
			ID:          "defi-mastery",
			Title:       "DeFi Mastery: Yield, Lending & AMMs",
			Description: "Liquidity pools, impermanent loss, lending markets and how to audit a protocol before depositing.",
			Price:       129.99,
			Category:    domain.CategoryDeFi,
			Level:       domain.LevelAdvanced,
			Rating:      4.9,
			Students:    2650,
			Downloads:   1105,
			Image:       "https://picsum.photos/id/1050/800/600",
			Tags:        []string{"DeFi", "Yield Farming", "AMM", "Lending"},
			DownloadURL: "https://materials.digitora.example/defi-mastery.zip",
		},
		{
			ID:          "nft-metaverse",
			Title:       "NFT & Metaverse Economies",
			Description: "Valuing digital collectibles, metaverse land and gaming assets beyond the hype cycle.",
			Price:       59.99,
			Category:    domain.CategoryNFTMetaverse,
			Level:       domain.LevelBeginner,
			Rating:      4.2,
			Students:    1120,
			Downloads:   310,
			Image:       "https://picsum.photos/id/1025/800/600",
			Tags:        []string{"NFT", "Metaverse", "Gaming"},
			DownloadURL: "https://materials.digitora.example/nft-metaverse.zip",
		},
		{
			ID:          "tokenized-real-estate",
			Title:       "Tokenized Assets: Real Estate On-Chain",
			Description: "Fractional ownership, RWA platforms and the legal wrappers behind tokenized real-world assets.",
			Price:       149.99,
			Category:    domain.CategoryTokenizedAssets,
			Level:       domain.LevelIntermediate,
			Rating:      4.6,
			Students:    740,
			Downloads:   150,
			Image:       "https://picsum.photos/id/1048/800/600",
			Tags:        []string{"RWA", "Real Estate", "Tokenization"},
			DownloadURL: "https://materials.digitora.example/tokenized-real-estate.zip",
		},
		{
			ID:          "digital-business",
			Title:       "Digital Business Blueprint",
			Description: "Building online revenue streams: audience, productization and payment rails for digital founders.",
			Price:       89.99,
			Category:    domain.CategoryDigitalBusiness,
			Level:       domain.LevelBeginner,
			Rating:      4.5,
			Students:    1980,
			Downloads:   620,
			Image:       "https://picsum.photos/id/1070/800/600",
			Tags:        []string{"Business", "E-commerce", "Marketing"},
			DownloadURL: "https://materials.digitora.example/digital-business.zip",
		},
		{
			ID:          "trading-psychology",
			Title:       "Trading Psychology: The Inner Game",
			Description: "Discipline, journaling and the behavioral traps that blow up otherwise profitable systems.",
			Price:       39.99,
			Category:    domain.CategoryPsychology,
			Level:       domain.LevelBeginner,
			Rating:      4.7,
			Students:    2890,
			Downloads:   940,
			Image:       "https://picsum.photos/id/1062/800/600",
			Tags:        []string{"Psychology", "Discipline", "Journaling"},
			DownloadURL: "https://materials.digitora.example/trading-psychology.zip",
		},
		{
			ID:          "special-mev",
			Title:       "MEV Bots: Institutional Extraction Strategies",
			Description: "Mempool analysis, bundle construction and the infrastructure behind professional MEV operations.",
			Price:       1999.00,
			Category:    domain.CategorySpecial,
			Level:       domain.LevelAdvanced,
			Rating:      5.0,
			Students:    140,
			Downloads:   85,
			Image:       "https://picsum.photos/id/1056/800/600",
			Tags:        []string{"MEV", "Bots", "Ethereum", "Infrastructure"},
			DownloadURL: "https://materials.digitora.example/special-mev.zip",
		},
		{
			ID:          "special-hedge-fund",
			Title:       "Hedge Fund Structuring & Capital Raising",
			Description: "Fund vehicles, fee structures and allocator relations for launching a digital asset fund.",
			Price:       2499.00,
			Category:    domain.CategorySpecial,
			Level:       domain.LevelAdvanced,
			Rating:      4.9,
			Students:    95,
			Downloads:   40,
			Image:       "https://picsum.photos/id/1067/800/600",
			Tags:        []string{"Hedge Fund", "Capital", "Structuring"},
			DownloadURL: "https://materials.digitora.example/special-hedge-fund.zip",
		},
		{
			ID:          "special-zk",
			Title:       "ZK-Rollup Architecture for Investors",
			Description: "How zero-knowledge scaling works, who wins the rollup wars and how to position early.",
			Price:       1499.00,
			Category:    domain.CategorySpecial,
			Level:       domain.LevelAdvanced,
			Rating:      4.8,
			Students:    210,
			Downloads:   120,
			Image:       "https://picsum.photos/id/1078/800/600",
			Tags:        []string{"ZK", "Rollups", "Scaling", "L2"},
			DownloadURL: "https://materials.digitora.example/special-zk.zip",
		},
	}
}
