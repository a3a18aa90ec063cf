package shopify

// GraphQL documents for the Storefront API. Fragments mirror the wire structs
// in wire.go; changing one side means changing the other.

const imageFragment = `
fragment image on Image {
  url
  altText
  width
  height
}
`

const seoFragment = `
fragment seo on SEO {
  title
  description
}
`

const productFragment = `
fragment product on Product {
  id
  handle
  availableForSale
  title
  description
  descriptionHtml
  options {
    id
    name
    values
  }
  priceRange {
    maxVariantPrice {
      amount
      currencyCode
    }
    minVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 250) {
    edges {
      node {
        id
        title
        availableForSale
        selectedOptions {
          name
          value
        }
        price {
          amount
          currencyCode
        }
      }
    }
  }
  featuredImage {
    ...image
  }
  images(first: 20) {
    edges {
      node {
        ...image
      }
    }
  }
  seo {
    ...seo
  }
  tags
  updatedAt
}
` + imageFragment + seoFragment

const cartFragment = `
fragment cart on Cart {
  id
  checkoutUrl
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            title
            selectedOptions {
              name
              value
            }
            product {
              id
              handle
              title
              featuredImage {
                ...image
              }
            }
          }
        }
      }
    }
  }
  totalQuantity
}
` + imageFragment

const getProductsQuery = `
query getProducts($sortKey: ProductSortKeys, $reverse: Boolean, $query: String) {
  products(sortKey: $sortKey, reverse: $reverse, query: $query, first: 100) {
    edges {
      node {
        ...product
      }
    }
  }
}
` + productFragment

const getProductQuery = `
query getProduct($handle: String!) {
  product(handle: $handle) {
    ...product
  }
}
` + productFragment

const getProductRecommendationsQuery = `
query getProductRecommendations($productId: ID!) {
  productRecommendations(productId: $productId) {
    ...product
  }
}
` + productFragment

const getCollectionsQuery = `
query getCollections {
  collections(first: 100, sortKey: TITLE) {
    edges {
      node {
        handle
        title
        description
        seo {
          ...seo
        }
        updatedAt
      }
    }
  }
}
` + seoFragment

const getCollectionProductsQuery = `
query getCollectionProducts($handle: String!, $sortKey: ProductCollectionSortKeys, $reverse: Boolean) {
  collection(handle: $handle) {
    products(sortKey: $sortKey, reverse: $reverse, first: 100) {
      edges {
        node {
          ...product
        }
      }
    }
  }
}
` + productFragment

const getPagesQuery = `
query getPages {
  pages(first: 100) {
    edges {
      node {
        id
        title
        handle
        body
        bodySummary
        seo {
          ...seo
        }
        createdAt
        updatedAt
      }
    }
  }
}
` + seoFragment

const getPageQuery = `
query getPage($handle: String!) {
  pageByHandle(handle: $handle) {
    id
    title
    handle
    body
    bodySummary
    seo {
      ...seo
    }
    createdAt
    updatedAt
  }
}
` + seoFragment

const getMenuQuery = `
query getMenu($handle: String!) {
  menu(handle: $handle) {
    items {
      title
      url
    }
  }
}
`

const getCartQuery = `
query getCart($cartId: ID!) {
  cart(id: $cartId) {
    ...cart
  }
}
` + cartFragment

const createCartMutation = `
mutation createCart($lineItems: [CartLineInput!]) {
  cartCreate(input: { lines: $lineItems }) {
    cart {
      ...cart
    }
  }
}
` + cartFragment

const addToCartMutation = `
mutation addToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
  }
}
` + cartFragment

const removeFromCartMutation = `
mutation removeFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...cart
    }
  }
}
` + cartFragment

const editCartItemsMutation = `
mutation editCartItems($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
  }
}
` + cartFragment
