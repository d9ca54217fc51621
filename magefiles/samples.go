//go:build mage

package main

const sampleBook = `id: climate-atlas
title: Climate Atlas
author: R. Ortega
year: 2021
language: en
tags: [climate, economics]
sections:
  - heading: Carbon Markets
    paragraphs:
      - Carbon markets price emissions through tradable permits.
      - Regulators set a cap on total emissions and auction permits to firms.
      - Firms that cut emissions cheaply can sell spare permits to others.
  - heading: Oceans
    paragraphs:
      - Oceans absorb roughly a quarter of the carbon dioxide released each year.
      - Warmer water holds less dissolved oxygen, which stresses marine life.
`

const sampleGlossary = `language: es
entries:
  cómo: how
  funcionan: work
  qué: what
  mercados de carbono: carbon markets
  mercados: markets
  emisiones: emissions
  permisos: permits
  océanos: oceans
`
