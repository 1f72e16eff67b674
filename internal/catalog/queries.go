package catalog

// GraphQL documents sent to the storefront surface. Connection page sizes
// for nested images/variants are fixed; product pagination is cursor-driven.
const productFields = `
id
handle
title
description
productType
tags
priceRange {
  minVariantPrice { amount currencyCode }
}
compareAtPriceRange {
  maxVariantPrice { amount currencyCode }
}
featuredImage { url altText }
images(first: 20) {
  edges { node { url altText } }
}
options { name values }
variants(first: 50) {
  edges {
    node {
      id
      title
      availableForSale
      price { amount currencyCode }
      compareAtPrice { amount currencyCode }
      selectedOptions { name value }
    }
  }
}`

const productsQuery = `
query Products($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    edges { node {` + productFields + `} }
    pageInfo { hasNextPage endCursor }
  }
}`

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {` + productFields + `}
}`

const productByIDQuery = `
query ProductByID($id: ID!) {
  product(id: $id) {` + productFields + `}
}`
